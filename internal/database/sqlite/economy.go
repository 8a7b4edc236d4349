package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/repository"
)

type economyTx struct {
	tx        *sql.Tx
	startedAt time.Time
}

// BeginTx waits for the single connection, which makes every economy
// transaction run alone
func (s *Store) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr("failed to begin transaction", err)
	}
	return &economyTx{tx: tx, startedAt: s.now()}, nil
}

func (t *economyTx) Commit(ctx context.Context) error {
	return commit(t.tx)
}

func (t *economyTx) Rollback(ctx context.Context) error {
	return rollback(t.tx)
}

func (t *economyTx) StartedAt() time.Time { return t.startedAt }

func (t *economyTx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	u, err := scanUser(t.tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, wrapErr("failed to get user", err)
	}
	return u, nil
}

func (t *economyTx) UpdateUserBalance(ctx context.Context, userID string, balance domain.Balance, weeklySpending int64) error {
	if balance.Stars < 0 || balance.Diamonds < 0 || weeklySpending < 0 {
		return fmt.Errorf("%w: negative balance for user %s", domain.ErrInvalidInput, userID)
	}
	res, err := t.tx.ExecContext(ctx, `
		UPDATE users SET stars = ?, diamonds = ?, weekly_spending = ?, updated_at = ?
		WHERE user_id = ?
	`, balance.Stars, balance.Diamonds, weeklySpending, toUnix(t.startedAt), userID)
	if err != nil {
		return wrapErr("failed to update balance", err)
	}
	return requireRow(res, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID))
}

func (t *economyTx) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	return getCase(ctx, t.tx, caseID)
}

func (t *economyTx) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	return getItem(ctx, t.tx, itemID)
}

func (t *economyTx) AddInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO inventory_items (`+inventoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.InventoryID, item.UserID, item.ID, item.Name, string(item.Rarity), item.StarValue,
		item.IconURL, item.ImageURL, item.BackgroundURL, item.Model3DURL, item.Description,
		string(item.Status), item.SourceCaseID, toUnix(item.WonAt))
	if err != nil {
		return wrapErr("failed to add inventory item", err)
	}
	return nil
}

func (t *economyTx) GetInventoryItemForUpdate(ctx context.Context, userID, inventoryID string) (*domain.InventoryItem, error) {
	item, err := scanInventoryItem(t.tx.QueryRowContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE inventory_id = ? AND user_id = ?`, inventoryID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, inventoryID)
	}
	if err != nil {
		return nil, wrapErr("failed to get inventory item", err)
	}
	return item, nil
}

func (t *economyTx) UpdateInventoryStatus(ctx context.Context, inventoryID string, status domain.InventoryStatus) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE inventory_items SET status = ? WHERE inventory_id = ?`, string(status), inventoryID)
	if err != nil {
		return wrapErr("failed to update inventory item", err)
	}
	return requireRow(res, fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, inventoryID))
}

func (t *economyTx) DeleteInventoryItem(ctx context.Context, inventoryID string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM inventory_items WHERE inventory_id = ?`, inventoryID)
	if err != nil {
		return wrapErr("failed to delete inventory item", err)
	}
	return requireRow(res, fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, inventoryID))
}

func (t *economyTx) AddWithdrawalRequest(ctx context.Context, req domain.WithdrawalRequest) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO withdrawal_requests (withdrawal_id, user_id, inventory_id, item_id, wallet, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, req.ID, req.UserID, req.InventoryID, req.ItemID, req.Wallet, toUnix(req.CreatedAt))
	if err != nil {
		return wrapErr("failed to add withdrawal request", err)
	}
	return nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return repository.ErrTxClosed
		}
		return wrapErr("failed to commit transaction", err)
	}
	return nil
}

func rollback(tx *sql.Tx) error {
	err := tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return repository.ErrTxClosed
	}
	return err
}
