package repository

import (
	"context"

	"github.com/osse101/StarCase_Go/internal/domain"
)

// Catalog defines read access to items and cases plus bulk seeding
type Catalog interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListCases(ctx context.Context) ([]domain.Case, error)
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	BeginCatalogTx(ctx context.Context) (CatalogTx, error)
}

// CatalogTx writes catalog rows atomically
type CatalogTx interface {
	Tx
	UpsertItem(ctx context.Context, item domain.Item) error
	// UpsertCase replaces the case row and its whole probability table
	UpsertCase(ctx context.Context, c domain.Case) error
}
