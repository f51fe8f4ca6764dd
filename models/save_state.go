package models

import (
	"time"

	"gorm.io/gorm"
)

// SaveBlob is the whole-state payload persisted after every mutating
// operation. Load/save always moves the full aggregate, never partial patches.
type SaveBlob struct {
	Player     *Player       `json:"player"`
	Runs       []*MissionRun `json:"mission_runs"`
	HeatEvents []HeatEvent   `json:"heat_events"`
}

// SaveState is the per-player persistence row. State holds the marshalled
// SaveBlob and is overwritten as a unit.
type SaveState struct {
	PlayerID  string         `gorm:"primaryKey" json:"player_id"`
	State     []byte         `gorm:"type:jsonb;not null" json:"-"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// MarketRecord persists the shared market snapshot (a single row).
type MarketRecord struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	State     []byte    `gorm:"type:jsonb;not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
