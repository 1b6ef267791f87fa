package services

import (
	"sync"
	"time"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

type rateCacheEntry struct {
	rate     float64
	cachedAt time.Time
}

// rateCache is the converter's in-memory pair cache. Storing a rate for
// (from,to) also stores (to,from) as 1/rate under the same lock, so no
// reader can observe the forward entry without the inverse. A read that
// finds a stale entry removes it and reports a miss.
type rateCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]rateCacheEntry
	now     func() time.Time
}

func newRateCache(ttl time.Duration) *rateCache {
	return &rateCache{
		ttl:     ttl,
		entries: make(map[string]rateCacheEntry),
		now:     time.Now,
	}
}

func pairKey(from, to string) string {
	return from + "->" + to
}

func (c *rateCache) get(from, to string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := pairKey(from, to)
	entry, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	if c.now().Sub(entry.cachedAt) > c.ttl {
		delete(c.entries, key)
		return 0, false
	}
	return entry.rate, true
}

// setPair stores the forward and inverse entries atomically.
func (c *rateCache) setPair(from, to string, rate float64) {
	if rate == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[pairKey(from, to)] = rateCacheEntry{rate: rate, cachedAt: now}
	c.entries[pairKey(to, from)] = rateCacheEntry{rate: 1 / rate, cachedAt: now}
}

func (c *rateCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]rateCacheEntry)
}

func (c *rateCache) stats() domain.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return domain.CacheStats{
		Entries: len(c.entries),
		Keys:    keys,
		TTL:     c.ttl.String(),
	}
}
