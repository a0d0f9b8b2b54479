package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"solar-sim/internal/model"
)

// DefaultCacheTTL is how long a provider response stays fresh.
const DefaultCacheTTL = time.Hour

type cacheEntry struct {
	intervals []model.Interval
	expiresAt time.Time
}

// ResponseCache memoizes provider series in memory.
//
// PVGIS returns the same historical year for identical parameters, so repeated
// simulations for one site only hit the network once per TTL.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewResponseCache creates a cache and starts its cleanup goroutine. Call
// Close to stop it. A ttl <= 0 uses DefaultCacheTTL.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &ResponseCache{
		store: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

// Get returns a copy of a cached series if present and not expired.
func (c *ResponseCache) Get(key string) ([]model.Interval, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	out := make([]model.Interval, len(entry.intervals))
	copy(out, entry.intervals)
	return out, true
}

// Set stores a copy of intervals under key.
func (c *ResponseCache) Set(key string, intervals []model.Interval) {
	if c == nil {
		return
	}
	stored := make([]model.Interval, len(intervals))
	copy(stored, intervals)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = cacheEntry{
		intervals: stored,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len reports the number of entries, expired or not.
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache
func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *ResponseCache) Close() {
	if c == nil {
		return
	}
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *ResponseCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *ResponseCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

// CacheKey builds a deterministic key from a provider name and its
// request parameters.
func CacheKey(provider string, parts ...any) string {
	keyStr := provider
	for _, p := range parts {
		keyStr += fmt.Sprintf(":%v", p)
	}
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
