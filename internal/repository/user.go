package repository

import (
	"context"

	"github.com/osse101/StarCase_Go/internal/domain"
)

// User defines the interface for user persistence outside the economy transaction
type User interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	// CreateUser inserts the user unless the telegram ID is already registered.
	// It returns the stored row and whether it was created by this call.
	CreateUser(ctx context.Context, user domain.User) (*domain.User, bool, error)
	// GetInventory returns the user's items, newest first
	GetInventory(ctx context.Context, userID string) ([]domain.InventoryItem, error)
}

// Leaderboard defines weekly spending queries
type Leaderboard interface {
	TopWeeklySpenders(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	// ResetWeeklySpending zeroes every accumulator and returns the number of rows changed
	ResetWeeklySpending(ctx context.Context) (int64, error)
}
