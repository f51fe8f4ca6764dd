package services

import (
	"errors"
	"time"

	"syndicate-engine/models"
)

// ErrUnknownAdjustKind rejects unrecognized adjustment requests.
var ErrUnknownAdjustKind = errors.New("unknown adjustment kind")

// Adjustment kinds accepted by Adjust.
const (
	AdjustWalletDelta = "WALLET_DELTA"
	AdjustXpDelta     = "XP_DELTA"
	AdjustHeatDelta   = "HEAT_DELTA"
	AdjustHpDelta     = "HP_DELTA"
)

// AdminService backs the operator surface: usage overview and manual player
// corrections.
type AdminService struct {
	Store     *Store
	Narrative *NarrativeClient
}

func NewAdminService(store *Store, narrative *NarrativeClient) *AdminService {
	return &AdminService{Store: store, Narrative: narrative}
}

// Overview is the operator usage snapshot.
type Overview struct {
	TotalPlayers   int            `json:"total_players"`
	MissionsRun24h int            `json:"missions_run_24h"`
	NarrativeUsage RateLimitStats `json:"narrative_usage"`
}

func (s *AdminService) GetOverview() Overview {
	return Overview{
		TotalPlayers:   s.Store.PlayerCount(),
		MissionsRun24h: s.Store.RunsSince(time.Now().Add(-24 * time.Hour)),
		NarrativeUsage: s.Narrative.Limiter.Stats(),
	}
}

// PlayerDetails returns a deep-ish snapshot for inspection.
func (s *AdminService) PlayerDetails(playerID string) (*models.Player, []*models.MissionRun, []models.HeatEvent, error) {
	var (
		player *models.Player
		runs   []*models.MissionRun
		events []models.HeatEvent
	)
	err := s.Store.View(playerID, func(ps *PlayerState) {
		snapshot := *ps.Player
		player = &snapshot
		runs = append(runs, ps.Runs...)
		events = append(events, ps.HeatEvents...)
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return player, runs, events, nil
}

// AdjustRequest is a tagged manual correction.
type AdjustRequest struct {
	Kind  string `json:"kind"`
	Value int    `json:"value"`
}

// Adjust applies one correction, keeping the usual bounds: heat never drops
// below zero, hp stays within [0, max], XP grants cascade level-ups.
func (s *AdminService) Adjust(playerID string, req AdjustRequest) error {
	return s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		p := ps.Player
		switch req.Kind {
		case AdjustWalletDelta:
			p.Wallet += req.Value
		case AdjustXpDelta:
			p.Xp += req.Value
			CheckLevelUp(p)
		case AdjustHeatDelta:
			p.Stats.Heat += req.Value
			if p.Stats.Heat < 0 {
				p.Stats.Heat = 0
			}
		case AdjustHpDelta:
			p.Stats.Hp += req.Value
			if p.Stats.Hp < 0 {
				p.Stats.Hp = 0
			}
			if p.Stats.Hp > p.Stats.MaxHp {
				p.Stats.Hp = p.Stats.MaxHp
			}
		default:
			return ErrUnknownAdjustKind
		}
		return nil
	})
}

// ResetCooldowns clears every mission-type cooldown for a player.
func (s *AdminService) ResetCooldowns(playerID string) error {
	return s.Store.WithPlayer(playerID, func(ps *PlayerState) error {
		ps.Player.MissionCooldowns = make(map[models.MissionType]int64)
		return nil
	})
}
