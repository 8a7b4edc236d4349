package catalog

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/StarCase_Go/internal/domain"
)

// cachedEntry holds exactly one of its fields depending on the key
type cachedEntry struct {
	items []domain.Item
	cases []domain.Case
	c     *domain.Case
}

// readCache keeps catalog reads off the store. Reads are display-only, so a
// stale entry is acceptable until the TTL lapses or Invalidate runs.
type readCache struct {
	lru *expirable.LRU[string, cachedEntry]
}

func newReadCache(size int, ttl time.Duration) *readCache {
	return &readCache{lru: expirable.NewLRU[string, cachedEntry](size, nil, ttl)}
}

func (c *readCache) get(key string) (cachedEntry, bool) {
	return c.lru.Get(key)
}

func (c *readCache) set(key string, entry cachedEntry) {
	c.lru.Add(key, entry)
}

func (c *readCache) purge() {
	c.lru.Purge()
}
