// Package leaderboard ranks users by weekly spending.
package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/repository"
)

// Defaults
const (
	DefaultSize     = 10
	MaxSize         = 100
	DefaultCacheTTL = 30 * time.Second
)

// Log messages
const (
	LogMsgCacheHit = "Leaderboard cache hit"
)

// Service defines leaderboard reads
type Service interface {
	// Top returns at most limit entries; limit <= 0 means the configured size
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	// Invalidate drops cached rankings, e.g. after the weekly reset
	Invalidate()
}

type service struct {
	repo        repository.Leaderboard
	defaultSize int
	cache       *expirable.LRU[int, []domain.LeaderboardEntry]
}

// NewService creates a leaderboard service
func NewService(repo repository.Leaderboard, size int, ttl time.Duration) Service {
	if size <= 0 || size > MaxSize {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &service{
		repo:        repo,
		defaultSize: size,
		cache:       expirable.NewLRU[int, []domain.LeaderboardEntry](MaxSize, nil, ttl),
	}
}

func (s *service) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = s.defaultSize
	}
	if limit > MaxSize {
		return nil, fmt.Errorf("%w: limit must be at most %d", domain.ErrInvalidInput, MaxSize)
	}

	if entries, ok := s.cache.Get(limit); ok {
		logger.FromContext(ctx).Debug(LogMsgCacheHit, "limit", limit)
		return entries, nil
	}

	entries, err := s.repo.TopWeeklySpenders(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	s.cache.Add(limit, entries)
	return entries, nil
}

func (s *service) Invalidate() {
	s.cache.Purge()
}
