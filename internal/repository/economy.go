package repository

import (
	"context"
	"time"

	"github.com/osse101/StarCase_Go/internal/domain"
)

// Economy is the transactional store behind every money-moving operation
type Economy interface {
	// BeginTx opens a transaction with at least snapshot isolation. A commit
	// that loses a race with a concurrent writer fails with domain.ErrStoreConflict.
	BeginTx(ctx context.Context) (EconomyTx, error)
}

// EconomyTx defines the reads and writes available inside one economy transaction
type EconomyTx interface {
	Tx

	// StartedAt is the timestamp recorded for rows written by this transaction
	StartedAt() time.Time

	GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error)
	UpdateUserBalance(ctx context.Context, userID string, balance domain.Balance, weeklySpending int64) error

	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)

	AddInventoryItem(ctx context.Context, item domain.InventoryItem) error
	GetInventoryItemForUpdate(ctx context.Context, userID, inventoryID string) (*domain.InventoryItem, error)
	UpdateInventoryStatus(ctx context.Context, inventoryID string, status domain.InventoryStatus) error
	DeleteInventoryItem(ctx context.Context, inventoryID string) error

	AddWithdrawalRequest(ctx context.Context, req domain.WithdrawalRequest) error
}
