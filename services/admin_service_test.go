package services

import (
	"errors"
	"testing"
	"time"

	"syndicate-engine/models"
)

func newAdminEnv(t *testing.T) (*testEnv, *AdminService) {
	t.Helper()
	env := newTestEnv(t, 1)
	return env, NewAdminService(env.store, NewNarrativeClient("", ""))
}

func TestAdminOverviewCounts(t *testing.T) {
	env, admin := newAdminEnv(t)
	env.register(t, testPlayer())
	p2 := testPlayer()
	p2.ID = "p2"
	env.register(t, p2)

	err := env.store.WithPlayer("p1", func(ps *PlayerState) error {
		ps.Runs = append(ps.Runs,
			&models.MissionRun{ID: "r1", Timestamp: time.Now().UnixMilli()},
			&models.MissionRun{ID: "r2", Timestamp: time.Now().Add(-30 * time.Hour).UnixMilli()},
		)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	ov := admin.GetOverview()
	if ov.TotalPlayers != 2 {
		t.Errorf("players: got %d, want 2", ov.TotalPlayers)
	}
	if ov.MissionsRun24h != 1 {
		t.Errorf("runs 24h: got %d, want 1", ov.MissionsRun24h)
	}
	if ov.NarrativeUsage.GlobalLimit != MaxGlobalCallsPerHour {
		t.Errorf("usage snapshot: %+v", ov.NarrativeUsage)
	}
}

func TestAdminAdjustKinds(t *testing.T) {
	env, admin := newAdminEnv(t)
	env.register(t, testPlayer())

	if err := admin.Adjust("p1", AdjustRequest{Kind: AdjustWalletDelta, Value: 500}); err != nil {
		t.Fatal(err)
	}
	if got := env.player(t, "p1").Wallet; got != 1500 {
		t.Errorf("wallet: got %d", got)
	}

	// XP grants cascade through level-ups.
	if err := admin.Adjust("p1", AdjustRequest{Kind: AdjustXpDelta, Value: RequiredXp(1)}); err != nil {
		t.Fatal(err)
	}
	if got := env.player(t, "p1").Level; got != 2 {
		t.Errorf("level: got %d, want 2", got)
	}

	if err := admin.Adjust("p1", AdjustRequest{Kind: AdjustHeatDelta, Value: -50}); err != nil {
		t.Fatal(err)
	}
	if got := env.player(t, "p1").Stats.Heat; got != 0 {
		t.Errorf("heat floor: got %d", got)
	}

	if err := admin.Adjust("p1", AdjustRequest{Kind: AdjustHpDelta, Value: 9999}); err != nil {
		t.Fatal(err)
	}
	after := env.player(t, "p1")
	if after.Stats.Hp != after.Stats.MaxHp {
		t.Errorf("hp clamp: got %d/%d", after.Stats.Hp, after.Stats.MaxHp)
	}

	if err := admin.Adjust("p1", AdjustRequest{Kind: "BANANA", Value: 1}); !errors.Is(err, ErrUnknownAdjustKind) {
		t.Errorf("unknown kind: got %v", err)
	}
}

func TestAdminResetCooldowns(t *testing.T) {
	env, admin := newAdminEnv(t)
	p := testPlayer()
	p.MissionCooldowns[models.MissionSideJob] = time.Now().Add(time.Hour).UnixMilli()
	env.register(t, p)

	if err := admin.ResetCooldowns("p1"); err != nil {
		t.Fatal(err)
	}
	if len(env.player(t, "p1").MissionCooldowns) != 0 {
		t.Error("cooldowns not cleared")
	}
}
