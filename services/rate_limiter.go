package services

import (
	"sync"
	"time"
)

// Narrative call budgets. The global limit is a hard safety valve; the
// per-player limit keeps one player from draining it.
const (
	MaxGlobalCallsPerHour = 300
	MaxPlayerCallsPerHour = 30
)

// RateLimiter enforces sliding-window hourly budgets for narrative calls,
// globally and per player.
type RateLimiter struct {
	mu          sync.Mutex
	window      time.Duration
	globalLimit int
	playerLimit int
	global      []time.Time
	perPlayer   map[string][]time.Time
	now         func() time.Time
}

// RateLimitStats is a usage snapshot for the admin overview.
type RateLimitStats struct {
	GlobalUsage    int `json:"global_usage"`
	GlobalLimit    int `json:"global_limit"`
	MaxPlayerUsage int `json:"max_player_usage"`
	PlayerLimit    int `json:"player_limit"`
	ActiveUsers    int `json:"active_users"`
}

// NewRateLimiter builds a limiter with the standard hourly budgets.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		window:      time.Hour,
		globalLimit: MaxGlobalCallsPerHour,
		playerLimit: MaxPlayerCallsPerHour,
		perPlayer:   make(map[string][]time.Time),
		now:         time.Now,
	}
}

func pruneOld(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && ts[i].Before(cutoff) {
		i++
	}
	return ts[i:]
}

// Allow reports whether one more narrative call may go out for this player,
// recording the call when permitted.
func (rl *RateLimiter) Allow(playerID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.global = pruneOld(rl.global, cutoff)
	if len(rl.global) >= rl.globalLimit {
		return false
	}

	calls := pruneOld(rl.perPlayer[playerID], cutoff)
	if len(calls) >= rl.playerLimit {
		rl.perPlayer[playerID] = calls
		return false
	}

	rl.global = append(rl.global, now)
	rl.perPlayer[playerID] = append(calls, now)
	return true
}

// Stats prunes expired entries and returns current usage.
func (rl *RateLimiter) Stats() RateLimitStats {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	rl.global = pruneOld(rl.global, cutoff)

	stats := RateLimitStats{
		GlobalUsage: len(rl.global),
		GlobalLimit: rl.globalLimit,
		PlayerLimit: rl.playerLimit,
	}
	for id, calls := range rl.perPlayer {
		calls = pruneOld(calls, cutoff)
		rl.perPlayer[id] = calls
		if len(calls) > 0 {
			stats.ActiveUsers++
		}
		if len(calls) > stats.MaxPlayerUsage {
			stats.MaxPlayerUsage = len(calls)
		}
	}
	return stats
}
