package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/StarCase_Go/internal/casebox"
	"github.com/osse101/StarCase_Go/internal/catalog"
	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/feed"
	"github.com/osse101/StarCase_Go/internal/leaderboard"
	"github.com/osse101/StarCase_Go/internal/user"
)

// MockUserService implements user.Service for testing
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, telegramID int64, username string) (*domain.User, bool, error) {
	args := m.Called(ctx, telegramID, username)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Bool(1), args.Error(2)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetProfileByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetInventory(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockUserService) Credit(ctx context.Context, userID string, stars, diamonds int64) (*domain.Balance, error) {
	args := m.Called(ctx, userID, stars, diamonds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

// MockCaseService implements casebox.Service for testing
type MockCaseService struct {
	mock.Mock
}

func (m *MockCaseService) OpenCase(ctx context.Context, caseID, userID string) (*casebox.OpenResult, error) {
	args := m.Called(ctx, caseID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*casebox.OpenResult), args.Error(1)
}

func (m *MockCaseService) OpenCases(ctx context.Context, caseID, userID string, multiplier int) (*casebox.OpenResult, error) {
	args := m.Called(ctx, caseID, userID, multiplier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*casebox.OpenResult), args.Error(1)
}

func (m *MockCaseService) SellItem(ctx context.Context, userID, inventoryID string) (*casebox.SellResult, error) {
	args := m.Called(ctx, userID, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*casebox.SellResult), args.Error(1)
}

func (m *MockCaseService) WithdrawItem(ctx context.Context, userID, inventoryID, wallet string) (*casebox.WithdrawResult, error) {
	args := m.Called(ctx, userID, inventoryID, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*casebox.WithdrawResult), args.Error(1)
}

func (m *MockCaseService) Upgrade(ctx context.Context, userID, inventoryID, targetItemID string) (*casebox.UpgradeResult, error) {
	args := m.Called(ctx, userID, inventoryID, targetItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*casebox.UpgradeResult), args.Error(1)
}

// MockCatalogService implements catalog.Service for testing
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockCatalogService) ListCases(ctx context.Context) ([]domain.Case, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

func (m *MockCatalogService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCatalogService) Reload(ctx context.Context) (*catalog.ReloadResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ReloadResult), args.Error(1)
}

func (m *MockCatalogService) Invalidate() {
	m.Called()
}

// MockLeaderboardService implements leaderboard.Service for testing
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardService) Invalidate() {
	m.Called()
}

// MockResetter implements WeeklyResetter for testing
type MockResetter struct {
	mock.Mock
}

func (m *MockResetter) RunNow(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPinger implements Pinger for testing
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type stubFeed struct {
	drops []feed.Drop
}

func (s *stubFeed) Recent(limit int) []feed.Drop {
	if limit <= 0 || limit > len(s.drops) {
		return s.drops
	}
	return s.drops[:limit]
}

func (s *stubFeed) Capacity() int { return 50 }

var (
	_ user.Service        = (*MockUserService)(nil)
	_ casebox.Service     = (*MockCaseService)(nil)
	_ catalog.Service     = (*MockCatalogService)(nil)
	_ leaderboard.Service = (*MockLeaderboardService)(nil)
	_ FeedReader          = (*stubFeed)(nil)
)
