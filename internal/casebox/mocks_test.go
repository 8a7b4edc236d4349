package casebox

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/repository"
)

// MockRepository implements repository.Economy for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.EconomyTx), args.Error(1)
}

// MockTx implements repository.EconomyTx for testing
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) StartedAt() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func (m *MockTx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockTx) UpdateUserBalance(ctx context.Context, userID string, balance domain.Balance, weeklySpending int64) error {
	args := m.Called(ctx, userID, balance, weeklySpending)
	return args.Error(0)
}

func (m *MockTx) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockTx) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockTx) AddInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockTx) GetInventoryItemForUpdate(ctx context.Context, userID, inventoryID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, userID, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockTx) UpdateInventoryStatus(ctx context.Context, inventoryID string, status domain.InventoryStatus) error {
	args := m.Called(ctx, inventoryID, status)
	return args.Error(0)
}

func (m *MockTx) DeleteInventoryItem(ctx context.Context, inventoryID string) error {
	args := m.Called(ctx, inventoryID)
	return args.Error(0)
}

func (m *MockTx) AddWithdrawalRequest(ctx context.Context, req domain.WithdrawalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockPublisher records published events
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	m.Called(ctx, evt)
}
