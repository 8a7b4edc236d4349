package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/repository"
)

// ListItems returns every item ordered by ID
func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetItem returns one catalog item
func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return &item, nil
}

// ListCases returns every case ordered by price, then ID
func (s *Store) ListCases(ctx context.Context) ([]domain.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Case, 0, len(s.cases))
	for _, c := range s.cases {
		out = append(out, cloneCase(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetCase returns one case with its probability table
func (s *Store) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, caseID)
	}
	c = cloneCase(c)
	return &c, nil
}

type catalogTx struct {
	s      *Store
	items  []domain.Item
	cases  []domain.Case
	closed bool
}

// BeginCatalogTx buffers catalog upserts until commit
func (s *Store) BeginCatalogTx(ctx context.Context) (repository.CatalogTx, error) {
	return &catalogTx{s: s}, nil
}

func (t *catalogTx) UpsertItem(ctx context.Context, item domain.Item) error {
	t.items = append(t.items, item)
	return nil
}

func (t *catalogTx) UpsertCase(ctx context.Context, c domain.Case) error {
	t.cases = append(t.cases, cloneCase(c))
	return nil
}

func (t *catalogTx) Commit(ctx context.Context) error {
	if t.closed {
		return repository.ErrTxClosed
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, item := range t.items {
		t.s.items[item.ID] = item
	}
	for _, c := range t.cases {
		t.s.cases[c.ID] = c
	}
	t.closed = true
	return nil
}

func (t *catalogTx) Rollback(ctx context.Context) error {
	if t.closed {
		return repository.ErrTxClosed
	}
	t.closed = true
	return nil
}
