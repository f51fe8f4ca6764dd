package services

import (
	"testing"
	"time"

	"syndicate-engine/models"
)

// testPlayer is a plain level-1 character with no crew, gear or skills.
func testPlayer() *models.Player {
	return &models.Player{
		ID:         "p1",
		Name:       "Vex",
		Faction:    models.FactionIronWolves,
		Profession: models.ProfessionEnforcer,
		Level:      1,
		Stats: models.PlayerStats{
			Atk: 10, Def: 5,
			Hp: 100, MaxHp: 100,
			Enr: 100, MaxEnr: 100,
			Sta: 100, MaxSta: 100,
			Lck: 5, CInt: 10,
		},
		Wallet:           1000,
		Day:              1,
		MissionCooldowns: make(map[models.MissionType]int64),
		MissionMastery:   make(map[string]int),
	}
}

type testEnv struct {
	store   *Store
	dice    *Dice
	mission *MissionService
	combat  *CombatService
	economy *EconomyService
}

// newTestEnv builds the full service graph on an in-memory store (no DB) with
// an offline narrative client and a seeded dice.
func newTestEnv(t *testing.T, seed int64) *testEnv {
	t.Helper()
	store := NewStore(nil)
	dice := NewDice(seed)
	narrative := NewNarrativeClient("", "")
	return &testEnv{
		store:   store,
		dice:    dice,
		mission: NewMissionService(store, dice, narrative),
		combat:  NewCombatService(store, dice),
		economy: NewEconomyService(store, dice, narrative),
	}
}

func (e *testEnv) register(t *testing.T, p *models.Player) {
	t.Helper()
	if err := e.store.Register(p); err != nil {
		t.Fatalf("registering player: %v", err)
	}
}

func (e *testEnv) player(t *testing.T, id string) models.Player {
	t.Helper()
	var snapshot models.Player
	if err := e.store.View(id, func(ps *PlayerState) { snapshot = *ps.Player }); err != nil {
		t.Fatalf("reading player: %v", err)
	}
	return snapshot
}

// seedCombat installs an open run already mid-combat against the given enemy.
func (e *testEnv) seedCombat(t *testing.T, playerID, missionID string, enemy models.Enemy) string {
	t.Helper()
	run := &models.MissionRun{
		ID:        "combat-run",
		PlayerID:  playerID,
		MissionID: missionID,
		Narrative: "COMBAT_STARTED",
		Timestamp: time.Now().UnixMilli(),
		CombatState: &models.CombatState{
			IsActive:  true,
			TurnCount: 1,
			Enemy:     enemy,
		},
	}
	err := e.store.WithPlayer(playerID, func(ps *PlayerState) error {
		ps.Runs = append(ps.Runs, run)
		return nil
	})
	if err != nil {
		t.Fatalf("seeding combat: %v", err)
	}
	return run.ID
}
