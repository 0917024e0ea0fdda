package charts

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
)

type cacheEntry struct {
	payload  model.Payload
	storedAt time.Time
}

// ResultCache keeps the latest payload per category for a fixed time to live.
// Expiry is checked on read.
type ResultCache struct {
	entries *lru.Cache[model.Category, cacheEntry]
	ttl     time.Duration
	clock   clock.Clock
}

// NewResultCache creates a cache holding at most size categories.
func NewResultCache(size int, ttl time.Duration, c clock.Clock) (*ResultCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if c == nil {
		c = clock.System{}
	}
	entries, err := lru.New[model.Category, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &ResultCache{entries: entries, ttl: ttl, clock: c}, nil
}

// Get returns the payload stored for category if it is younger than the TTL.
func (c *ResultCache) Get(category model.Category) (model.Payload, bool) {
	entry, ok := c.entries.Get(category)
	if !ok {
		return model.Payload{}, false
	}
	if c.clock.Now().Sub(entry.storedAt) >= c.ttl {
		c.entries.Remove(category)
		return model.Payload{}, false
	}
	return entry.payload, true
}

// Set replaces the payload stored for category.
func (c *ResultCache) Set(category model.Category, payload model.Payload) {
	c.entries.Add(category, cacheEntry{payload: payload, storedAt: c.clock.Now()})
}

// Len returns the number of stored categories, including stale ones not yet evicted.
func (c *ResultCache) Len() int {
	return c.entries.Len()
}
