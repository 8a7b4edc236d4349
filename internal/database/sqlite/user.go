package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/StarCase_Go/internal/domain"
)

const userColumns = `user_id, telegram_id, username, stars, diamonds, weekly_spending, created_at, updated_at`

const inventoryColumns = `inventory_id, user_id, item_id, item_name, rarity, star_value, icon_url, image_url,
	background_url, model_3d_url, item_description, status, source_case_id, won_at`

func scanUser(row scanner) (*domain.User, error) {
	var (
		u                  domain.User
		created, updatedAt int64
	)
	err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.Balance.Stars, &u.Balance.Diamonds,
		&u.WeeklySpending, &created, &updatedAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt, u.UpdatedAt = fromUnix(created), fromUnix(updatedAt)
	return &u, nil
}

func scanInventoryItem(row scanner) (*domain.InventoryItem, error) {
	var (
		it             domain.InventoryItem
		rarity, status string
		wonAt          int64
	)
	err := row.Scan(&it.InventoryID, &it.UserID, &it.ID, &it.Name, &rarity, &it.StarValue,
		&it.IconURL, &it.ImageURL, &it.BackgroundURL, &it.Model3DURL, &it.Description,
		&status, &it.SourceCaseID, &wonAt)
	if err != nil {
		return nil, err
	}
	it.Rarity = domain.Rarity(rarity)
	it.Status = domain.InventoryStatus(status)
	it.WonAt = fromUnix(wonAt)
	return &it, nil
}

// GetUserByID returns a committed user
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, wrapErr("failed to get user", err)
	}
	return u, nil
}

// GetUserByTelegramID looks a user up by Telegram account
func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = ?`, telegramID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: telegram_id=%d", domain.ErrUserNotFound, telegramID)
	}
	if err != nil {
		return nil, wrapErr("failed to get user", err)
	}
	return u, nil
}

// CreateUser inserts a user keyed by Telegram ID, returning the existing row on duplicates
func (s *Store) CreateUser(ctx context.Context, user domain.User) (*domain.User, bool, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := toUnix(s.now())
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, telegram_id, username, stars, diamonds, weekly_spending, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (telegram_id) DO NOTHING
	`, user.ID, user.TelegramID, user.Username, user.Balance.Stars, user.Balance.Diamonds, now, now)
	if err != nil {
		return nil, false, wrapErr("failed to create user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, wrapErr("failed to create user", err)
	}

	stored, err := s.GetUserByTelegramID(ctx, user.TelegramID)
	if err != nil {
		return nil, false, err
	}
	return stored, n == 1, nil
}

// GetInventory returns the user's items, newest first
func (s *Store) GetInventory(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+inventoryColumns+` FROM inventory_items
		WHERE user_id = ?
		ORDER BY won_at DESC, inventory_id
	`, userID)
	if err != nil {
		return nil, wrapErr("failed to get inventory", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, wrapErr("failed to scan inventory item", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// TopWeeklySpenders ranks users with non-zero weekly spending
func (s *Store) TopWeeklySpenders(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, username, weekly_spending FROM users
		WHERE weekly_spending > 0
		ORDER BY weekly_spending DESC, username
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, wrapErr("failed to query leaderboard", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		e := domain.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&e.UserID, &e.Username, &e.WeeklySpending); err != nil {
			return nil, wrapErr("failed to scan leaderboard entry", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ResetWeeklySpending zeroes every accumulator
func (s *Store) ResetWeeklySpending(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET weekly_spending = 0, updated_at = ? WHERE weekly_spending > 0`, toUnix(s.now()))
	if err != nil {
		return 0, wrapErr("failed to reset weekly spending", err)
	}
	return res.RowsAffected()
}
