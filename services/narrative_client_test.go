package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"syndicate-engine/models"
)

func TestRateLimiterPerPlayerBudget(t *testing.T) {
	rl := NewRateLimiter()
	for i := 0; i < MaxPlayerCallsPerHour; i++ {
		if !rl.Allow("p1") {
			t.Fatalf("call %d denied inside the budget", i+1)
		}
	}
	if rl.Allow("p1") {
		t.Fatal("31st call allowed")
	}
	// Another player has an independent budget.
	if !rl.Allow("p2") {
		t.Fatal("second player blocked by first player's usage")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < MaxPlayerCallsPerHour; i++ {
		rl.Allow("p1")
	}
	if rl.Allow("p1") {
		t.Fatal("budget not exhausted")
	}

	now = now.Add(time.Hour + time.Minute)
	if !rl.Allow("p1") {
		t.Fatal("window did not slide")
	}
}

func TestRateLimiterGlobalBudget(t *testing.T) {
	rl := NewRateLimiter()
	for i := 0; i < MaxGlobalCallsPerHour; i++ {
		// Spread across players so no per-player limit trips first.
		if !rl.Allow(fmt.Sprintf("p%d", i/10)) {
			t.Fatalf("call %d denied inside the global budget", i+1)
		}
	}
	if rl.Allow("fresh-player") {
		t.Fatal("global budget not enforced")
	}

	stats := rl.Stats()
	if stats.GlobalUsage != MaxGlobalCallsPerHour || stats.GlobalLimit != MaxGlobalCallsPerHour {
		t.Errorf("global stats: %+v", stats)
	}
	if stats.ActiveUsers != 30 || stats.MaxPlayerUsage != 10 {
		t.Errorf("player stats: %+v", stats)
	}
	if stats.PlayerLimit != MaxPlayerCallsPerHour {
		t.Errorf("player limit: %+v", stats)
	}
}

func TestResponseCacheHitAndExpiry(t *testing.T) {
	c := NewResponseCache()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	payload := map[string]interface{}{"kind": "mission_briefing", "mission": "m_docks_1"}
	if _, ok := c.Get(payload); ok {
		t.Fatal("hit on empty cache")
	}
	c.Set(payload, "cached line")

	// An equivalent payload built separately hits the same entry.
	equivalent := map[string]interface{}{"mission": "m_docks_1", "kind": "mission_briefing"}
	got, ok := c.Get(equivalent)
	if !ok || got != "cached line" {
		t.Fatalf("equivalent payload missed: %q, %v", got, ok)
	}

	now = now.Add(CacheTTL + time.Minute)
	if _, ok := c.Get(payload); ok {
		t.Fatal("entry survived past its TTL")
	}
}

func TestNarrativeOfflineFallbacks(t *testing.T) {
	c := NewNarrativeClient("", "")
	if !c.Offline() {
		t.Fatal("unconfigured client should be offline")
	}
	p := testPlayer()
	m := models.FindMission("m_docks_1")

	got := c.MissionNarrative(p, m, true)
	if got != "[OFFLINE MODE] You executed the Container Raid perfectly. The payout was secured." {
		t.Errorf("success debrief: %q", got)
	}
	got = c.MissionNarrative(p, m, false)
	if got != "[OFFLINE MODE] The Container Raid went sideways. You took some hits and had to bail." {
		t.Errorf("failure debrief: %q", got)
	}
	briefing := c.MissionBriefing(p, m)
	if !strings.Contains(briefing.Narrative, string(m.District)) {
		t.Errorf("briefing: %q", briefing.Narrative)
	}
	if len(briefing.Objectives) != 0 {
		t.Errorf("offline briefing must not invent objectives: %v", briefing.Objectives)
	}
	if got := c.NewsUpdate(p); got != "Scanner chatter indicates increased patrols in Sector 4." {
		t.Errorf("news: %q", got)
	}
	if got := c.MarketReport([]string{"Brass Knuckles UP"}); got != "Market volatility detected due to local disturbances." {
		t.Errorf("market: %q", got)
	}
}

func TestNarrativeRateLimitedFallback(t *testing.T) {
	// Configured but budget-exhausted: the limited line comes back without
	// any HTTP traffic.
	c := NewNarrativeClient("http://narrative.invalid", "token")
	p := testPlayer()
	m := models.FindMission("m_docks_1")

	for i := 0; i < MaxPlayerCallsPerHour; i++ {
		c.Limiter.Allow(p.ID)
	}
	got := c.MissionNarrative(p, m, true)
	if got != "The job resolves quickly. No witnesses, no complications. Another line added to your reputation." {
		t.Errorf("limited debrief: %q", got)
	}
	briefing := c.MissionBriefing(p, m)
	if briefing.Narrative != "Mission objectives confirmed. Awaiting command." {
		t.Errorf("limited briefing: %q", briefing.Narrative)
	}
	if len(briefing.Objectives) != 0 {
		t.Errorf("limited briefing must not carry objectives: %v", briefing.Objectives)
	}
}

func TestNarrativeServiceRoundTripAndCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v1/generate" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("auth: %s", r.Header.Get("Authorization"))
		}
		fmt.Fprint(w, `{"text":"The docks were quiet until they were not."}`)
	}))
	defer srv.Close()

	c := NewNarrativeClient(srv.URL, "token")
	p := testPlayer()
	m := models.FindMission("m_docks_1")

	got := c.MissionNarrative(p, m, true)
	if got != "The docks were quiet until they were not." {
		t.Fatalf("generated text: %q", got)
	}
	// Identical request is served from cache.
	if again := c.MissionNarrative(p, m, true); again != got {
		t.Fatalf("cache mismatch: %q", again)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("service called %d times, want 1", calls)
	}
}

func TestNarrativeBriefingCarriesObjectives(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"text":"Fog rolls over the pier.","objectives":["Tail the courier","Swap the manifest"]}`)
	}))
	defer srv.Close()

	c := NewNarrativeClient(srv.URL, "token")
	p := testPlayer()
	m := models.FindMission("m_docks_1")

	briefing := c.MissionBriefing(p, m)
	if briefing.Narrative != "Fog rolls over the pier." {
		t.Fatalf("narrative: %q", briefing.Narrative)
	}
	if len(briefing.Objectives) != 2 || briefing.Objectives[0] != "Tail the courier" {
		t.Fatalf("objectives: %v", briefing.Objectives)
	}

	// Repeat briefings come from cache, objectives included.
	again := c.MissionBriefing(p, m)
	if again.Narrative != briefing.Narrative || len(again.Objectives) != 2 {
		t.Fatalf("cached briefing lost data: %+v", again)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("service called %d times, want 1", calls)
	}
}

func TestNarrativeServiceErrorFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewNarrativeClient(srv.URL, "token")
	p := testPlayer()
	m := models.FindMission("m_docks_1")

	got := c.MissionNarrative(p, m, false)
	if got != "The operation concludes without incident. The city forgets, but your crew remembers." {
		t.Fatalf("error fallback: %q", got)
	}
}
