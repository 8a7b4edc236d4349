// Package catalog loads the item and case catalog from disk, seeds it into
// the store and serves cached read-only views of it.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/repository"
	"github.com/osse101/StarCase_Go/internal/validation"
)

// Service defines catalog reads and administration
type Service interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	ListCases(ctx context.Context) ([]domain.Case, error)
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	// Reload re-reads the catalog file, checks it, seeds it and clears the cache
	Reload(ctx context.Context) (*ReloadResult, error)
	Invalidate()
}

// Config locates the catalog on disk and sizes the read cache
type Config struct {
	Path       string
	SchemaPath string
	CacheTTL   time.Duration
	CacheSize  int
}

// ReloadResult summarizes a reload
type ReloadResult struct {
	Version  string   `json:"version,omitempty"`
	Items    int      `json:"items"`
	Cases    int      `json:"cases"`
	Warnings []string `json:"warnings,omitempty"`
}

type service struct {
	repo      repository.Catalog
	validator validation.SchemaValidator
	cfg       Config
	cache     *readCache
}

// NewService creates a catalog service
func NewService(repo repository.Catalog, validator validation.SchemaValidator, cfg Config) Service {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.SchemaPath == "" {
		cfg.SchemaPath = DefaultSchemaPath
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	return &service{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		cache:     newReadCache(cfg.CacheSize, cfg.CacheTTL),
	}
}

func (s *service) ListItems(ctx context.Context) ([]domain.Item, error) {
	if entry, ok := s.cache.get(cacheKeyItems); ok {
		logger.FromContext(ctx).Debug(LogMsgCacheHit, "key", cacheKeyItems)
		return entry.items, nil
	}
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(cacheKeyItems, cachedEntry{items: items})
	return items, nil
}

func (s *service) ListCases(ctx context.Context) ([]domain.Case, error) {
	if entry, ok := s.cache.get(cacheKeyCases); ok {
		logger.FromContext(ctx).Debug(LogMsgCacheHit, "key", cacheKeyCases)
		return entry.cases, nil
	}
	cases, err := s.repo.ListCases(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(cacheKeyCases, cachedEntry{cases: cases})
	return cases, nil
}

func (s *service) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	key := cacheKeyCasePrefix + caseID
	if entry, ok := s.cache.get(key); ok {
		return entry.c, nil
	}
	c, err := s.repo.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	s.cache.set(key, cachedEntry{c: c})
	return c, nil
}

func (s *service) Reload(ctx context.Context) (*ReloadResult, error) {
	log := logger.FromContext(ctx)

	f, err := Load(s.cfg.Path, s.cfg.SchemaPath, s.validator)
	if err != nil {
		return nil, err
	}
	warnings, err := f.Check()
	for _, w := range warnings {
		log.Warn(LogMsgCatalogWarning, "detail", w)
	}
	if err != nil {
		return nil, err
	}
	if err := Seed(ctx, s.repo, f); err != nil {
		return nil, err
	}
	s.Invalidate()

	log.Info(LogMsgCatalogReloaded, "version", f.Version, "items", len(f.Items), "cases", len(f.Cases))
	return &ReloadResult{Version: f.Version, Items: len(f.Items), Cases: len(f.Cases), Warnings: warnings}, nil
}

func (s *service) Invalidate() {
	s.cache.purge()
}

// Seed upserts every item and case of f in one transaction
func Seed(ctx context.Context, repo repository.Catalog, f *File) error {
	tx, err := repo.BeginCatalogTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgSeedFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	for _, item := range f.Items {
		if err := tx.UpsertItem(ctx, item); err != nil {
			return fmt.Errorf(ErrMsgSeedFailed, err)
		}
	}
	for _, c := range f.Cases {
		if err := tx.UpsertCase(ctx, c); err != nil {
			return fmt.Errorf(ErrMsgSeedFailed, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgSeedFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgCatalogSeeded, "items", len(f.Items), "cases", len(f.Cases))
	return nil
}
