package user

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// idCache maps Telegram IDs to user IDs. The mapping never changes once a
// user exists, so entries only leave the cache by eviction or expiry.
type idCache struct {
	lru *expirable.LRU[int64, string]
}

func newIDCache(size int, ttl time.Duration) *idCache {
	return &idCache{
		lru: expirable.NewLRU[int64, string](size, nil, ttl),
	}
}

func (c *idCache) Get(telegramID int64) (string, bool) {
	return c.lru.Get(telegramID)
}

func (c *idCache) Set(telegramID int64, userID string) {
	c.lru.Add(telegramID, userID)
}

func (c *idCache) Len() int {
	return c.lru.Len()
}
