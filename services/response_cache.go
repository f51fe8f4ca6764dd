package services

import (
	"encoding/json"
	"sync"
	"time"
)

// CacheTTL keeps identical narrative scenarios for an hour.
const CacheTTL = time.Hour

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// ResponseCache memoizes narrative responses keyed by a deterministic
// serialization of the request payload.
type ResponseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewResponseCache builds a cache with the standard TTL.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		ttl:     CacheTTL,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func cacheKey(payload any) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(b)
}

// Get returns the cached value for an equivalent payload, if unexpired.
func (c *ResponseCache) Get(payload any) (string, bool) {
	key := cacheKey(payload)
	if key == "" {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return "", false
	}
	return entry.value, true
}

// Set stores a value under the payload's deterministic key.
func (c *ResponseCache) Set(payload any, value string) {
	key := cacheKey(payload)
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}
