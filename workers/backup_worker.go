package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"syndicate-engine/services"
	"syndicate-engine/utils"
)

// BackupWorker periodically mirrors every save blob to object storage.
// Backups are best-effort: the database row remains the source of truth.
type BackupWorker struct {
	Store *services.Store
}

func NewBackupWorker(store *services.Store) *BackupWorker {
	return &BackupWorker{Store: store}
}

// RunOnce snapshots and uploads all current save blobs.
func (w *BackupWorker) RunOnce() error {
	blobs, err := w.Store.SnapshotBlobs()
	if err != nil {
		return fmt.Errorf("snapshotting saves: %w", err)
	}

	day := time.Now().UTC().Format("2006-01-02")
	uploaded := 0
	for playerID, data := range blobs {
		key := fmt.Sprintf("saves/%s/%s.json", day, playerID)
		if err := utils.UploadSaveSnapshot(context.TODO(), key, data); err != nil {
			return fmt.Errorf("uploading %s: %w", key, err)
		}
		uploaded++
	}
	log.Printf("✅ Backed up %d save blob(s) to object storage", uploaded)
	return nil
}

// Poll uploads snapshots on a fixed interval until the context is cancelled.
func (w *BackupWorker) Poll(ctx context.Context, interval time.Duration) {
	log.Println("Starting save backup polling...")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Save backup polling stopped.")
			return
		case <-ticker.C:
			if err := w.RunOnce(); err != nil {
				log.Printf("❌ Backup cycle failed: %v", err)
			}
		}
	}
}
