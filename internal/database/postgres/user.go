package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osse101/StarCase_Go/internal/domain"
)

const userColumns = `user_id, telegram_id, username, stars, diamonds, weekly_spending, created_at, updated_at`

const inventoryColumns = `inventory_id, user_id, item_id, item_name, rarity, star_value, icon_url, image_url,
	background_url, model_3d_url, item_description, status, source_case_id, won_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.Balance.Stars, &u.Balance.Diamonds,
		&u.WeeklySpending, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanInventoryItem(row pgx.Row) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := row.Scan(&it.InventoryID, &it.UserID, &it.ID, &it.Name, &it.Rarity, &it.StarValue,
		&it.IconURL, &it.ImageURL, &it.BackgroundURL, &it.Model3DURL, &it.Description,
		&it.Status, &it.SourceCaseID, &it.WonAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetUserByID returns a committed user
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, wrapErr(ErrMsgGetUser, err)
	}
	return u, nil
}

// GetUserByTelegramID looks a user up by Telegram account
func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: telegram_id=%d", domain.ErrUserNotFound, telegramID)
	}
	if err != nil {
		return nil, wrapErr(ErrMsgGetUser, err)
	}
	return u, nil
}

// CreateUser inserts a user keyed by Telegram ID, returning the existing row on duplicates
func (s *Store) CreateUser(ctx context.Context, user domain.User) (*domain.User, bool, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	created, err := scanUser(s.db.QueryRow(ctx, `
		INSERT INTO users (user_id, telegram_id, username, stars, diamonds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_id) DO NOTHING
		RETURNING `+userColumns,
		user.ID, user.TelegramID, user.Username, user.Balance.Stars, user.Balance.Diamonds))
	switch {
	case err == nil:
		return created, true, nil
	case errors.Is(err, pgx.ErrNoRows), isUniqueViolation(err):
		existing, err := s.GetUserByTelegramID(ctx, user.TelegramID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	default:
		return nil, false, wrapErr(ErrMsgCreateUser, err)
	}
}

// GetInventory returns the user's items, newest first
func (s *Store) GetInventory(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+inventoryColumns+` FROM inventory_items
		WHERE user_id = $1
		ORDER BY won_at DESC, inventory_id
	`, userID)
	if err != nil {
		return nil, wrapErr(ErrMsgGetInventory, err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, wrapErr(ErrMsgGetInventory, err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// TopWeeklySpenders ranks users with non-zero weekly spending
func (s *Store) TopWeeklySpenders(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id, username, weekly_spending FROM users
		WHERE weekly_spending > 0
		ORDER BY weekly_spending DESC, username
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, wrapErr(ErrMsgLeaderboard, err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		e := domain.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&e.UserID, &e.Username, &e.WeeklySpending); err != nil {
			return nil, wrapErr(ErrMsgLeaderboard, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ResetWeeklySpending zeroes every accumulator
func (s *Store) ResetWeeklySpending(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `UPDATE users SET weekly_spending = 0, updated_at = NOW() WHERE weekly_spending > 0`)
	if err != nil {
		return 0, wrapErr(ErrMsgResetLeaderboard, err)
	}
	return tag.RowsAffected(), nil
}
