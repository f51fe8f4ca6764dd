package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"syndicate-engine/models"
)

// ErrUnknownPlayer is returned for operations against an id the store has
// never seen.
var ErrUnknownPlayer = errors.New("session expired: no such player")

// PlayerState is one player's full in-memory aggregate: the authoritative
// record plus the audit trail of past runs and heat events.
type PlayerState struct {
	Player     *models.Player
	Runs       []*models.MissionRun
	HeatEvents []models.HeatEvent
}

// FindRun returns the run with the given id, or nil.
func (ps *PlayerState) FindRun(runID string) *models.MissionRun {
	for _, r := range ps.Runs {
		if r.ID == runID {
			return r
		}
	}
	return nil
}

// OpenRun returns the single pending-or-combat-active run, or nil. At most
// one such run exists per player (Start enforces it).
func (ps *PlayerState) OpenRun() *models.MissionRun {
	for _, r := range ps.Runs {
		if r.Open() {
			return r
		}
	}
	return nil
}

// RecordHeat appends a heat audit entry when the heat value actually moved.
func (ps *PlayerState) RecordHeat(before int, reason, narrative string) {
	after := ps.Player.Stats.Heat
	if after == before {
		return
	}
	ps.HeatEvents = append(ps.HeatEvents, models.HeatEvent{
		ID:         uuid.NewString(),
		PlayerID:   ps.Player.ID,
		HeatBefore: before,
		HeatAfter:  after,
		Reason:     reason,
		Narrative:  narrative,
		Timestamp:  time.Now().UnixMilli(),
	})
}

// DailyIncome sums mission payouts over the trailing window, for the rolling
// income cap.
func (ps *PlayerState) DailyIncome(window time.Duration) int {
	cutoff := time.Now().Add(-window).UnixMilli()
	total := 0
	for _, r := range ps.Runs {
		if r.Timestamp > cutoff {
			total += r.GangGained
		}
	}
	return total
}

// Store owns every player aggregate plus the shared market snapshot. All
// mutations of one player are serialized behind that player's mutex; the
// whole state is overwritten in the backing store after each operation.
type Store struct {
	DB *gorm.DB // nil disables persistence (tests)

	mu     sync.Mutex
	states map[string]*PlayerState
	locks  map[string]*sync.Mutex

	marketMu sync.Mutex
	market   *models.MarketState
}

// NewStore builds an empty store bound to the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:     db,
		states: make(map[string]*PlayerState),
		locks:  make(map[string]*sync.Mutex),
		market: &models.MarketState{News: "Market stable."},
	}
}

// Load restores every save blob and the market snapshot from the database.
func (s *Store) Load() error {
	if s.DB == nil {
		return nil
	}

	var rows []models.SaveState
	if err := s.DB.Find(&rows).Error; err != nil {
		return fmt.Errorf("loading save states: %w", err)
	}
	for _, row := range rows {
		var blob models.SaveBlob
		if err := json.Unmarshal(row.State, &blob); err != nil {
			log.Printf("⚠️  Skipping corrupt save blob for %s: %v", row.PlayerID, err)
			continue
		}
		if blob.Player == nil {
			continue
		}
		s.states[row.PlayerID] = &PlayerState{
			Player:     blob.Player,
			Runs:       blob.Runs,
			HeatEvents: blob.HeatEvents,
		}
		s.locks[row.PlayerID] = &sync.Mutex{}
	}

	var market models.MarketRecord
	err := s.DB.First(&market, "id = 1").Error
	if err == nil {
		var state models.MarketState
		if jerr := json.Unmarshal(market.State, &state); jerr == nil {
			s.market = &state
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("loading market: %w", err)
	}

	log.Printf("✅ Loaded %d save state(s)", len(s.states))
	return nil
}

// Register installs a freshly created player, replacing any previous save
// under the same id, and persists immediately.
func (s *Store) Register(p *models.Player) error {
	s.mu.Lock()
	s.states[p.ID] = &PlayerState{Player: p}
	if _, ok := s.locks[p.ID]; !ok {
		s.locks[p.ID] = &sync.Mutex{}
	}
	s.mu.Unlock()
	return s.persist(p.ID)
}

func (s *Store) lockFor(playerID string) (*sync.Mutex, *PlayerState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.states[playerID]
	if !ok {
		return nil, nil, false
	}
	return s.locks[playerID], ps, true
}

// WithPlayer runs fn under the player's mutex and persists the whole state
// when fn succeeds. Validation failures (fn returning an error before
// mutating) therefore never touch the backing store.
func (s *Store) WithPlayer(playerID string, fn func(*PlayerState) error) error {
	lock, ps, ok := s.lockFor(playerID)
	if !ok {
		return ErrUnknownPlayer
	}
	lock.Lock()
	defer lock.Unlock()
	if err := fn(ps); err != nil {
		return err
	}
	return s.persist(playerID)
}

// View runs fn under the player's mutex without persisting afterwards.
func (s *Store) View(playerID string, fn func(*PlayerState)) error {
	lock, ps, ok := s.lockFor(playerID)
	if !ok {
		return ErrUnknownPlayer
	}
	lock.Lock()
	defer lock.Unlock()
	fn(ps)
	return nil
}

// persist overwrites the player's save blob as one unit.
func (s *Store) persist(playerID string) error {
	if s.DB == nil {
		return nil
	}
	_, ps, ok := s.lockFor(playerID)
	if !ok {
		return ErrUnknownPlayer
	}
	blob := models.SaveBlob{Player: ps.Player, Runs: ps.Runs, HeatEvents: ps.HeatEvents}
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("marshalling save blob: %w", err)
	}
	row := models.SaveState{PlayerID: playerID, State: data}
	if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("saving state for %s: %w", playerID, err)
	}
	return nil
}

// PlayerIDs lists every registered player (for the energy tick).
func (s *Store) PlayerIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	return ids
}

// PlayerCount is used by the admin overview.
func (s *Store) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// RunsSince counts mission runs recorded after the cutoff, across players.
func (s *Store) RunsSince(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := cutoff.UnixMilli()
	count := 0
	for _, ps := range s.states {
		for _, r := range ps.Runs {
			if r.Timestamp > ms {
				count++
			}
		}
	}
	return count
}

// WithMarket runs fn under the market mutex and persists the snapshot.
func (s *Store) WithMarket(fn func(*models.MarketState)) error {
	s.marketMu.Lock()
	defer s.marketMu.Unlock()
	fn(s.market)
	if s.DB == nil {
		return nil
	}
	data, err := json.Marshal(s.market)
	if err != nil {
		return fmt.Errorf("marshalling market: %w", err)
	}
	row := models.MarketRecord{ID: 1, State: data}
	if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("saving market: %w", err)
	}
	return nil
}

// MarketSnapshot returns a copy of the current market state.
func (s *Store) MarketSnapshot() models.MarketState {
	s.marketMu.Lock()
	defer s.marketMu.Unlock()
	out := *s.market
	out.Items = make([]models.MarketItem, len(s.market.Items))
	copy(out.Items, s.market.Items)
	return out
}

// SnapshotBlobs marshals every save blob, keyed by player id, for off-site
// backups.
func (s *Store) SnapshotBlobs() (map[string][]byte, error) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	out := make(map[string][]byte, len(ids))
	for _, id := range ids {
		err := s.View(id, func(ps *PlayerState) {
			blob := models.SaveBlob{Player: ps.Player, Runs: ps.Runs, HeatEvents: ps.HeatEvents}
			if data, err := json.Marshal(blob); err == nil {
				out[id] = data
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
