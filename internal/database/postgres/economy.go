package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/repository"
)

// economyTx implements repository.EconomyTx
type economyTx struct {
	tx        pgx.Tx
	startedAt time.Time
}

// BeginTx starts a SERIALIZABLE transaction. PostgreSQL aborts the loser of a
// concurrent read-write race with SQLSTATE 40001, surfaced as domain.ErrStoreConflict.
func (s *Store) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, wrapErr(ErrMsgBeginTx, err)
	}
	return &economyTx{tx: tx, startedAt: time.Now().UTC()}, nil
}

func (t *economyTx) Commit(ctx context.Context) error {
	return commit(ctx, t.tx)
}

func (t *economyTx) Rollback(ctx context.Context) error {
	return rollback(ctx, t.tx)
}

func (t *economyTx) StartedAt() time.Time { return t.startedAt }

func (t *economyTx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	user, err := scanUser(t.tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1 FOR UPDATE`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, wrapErr(ErrMsgGetUser, err)
	}
	return user, nil
}

func (t *economyTx) UpdateUserBalance(ctx context.Context, userID string, balance domain.Balance, weeklySpending int64) error {
	if balance.Stars < 0 || balance.Diamonds < 0 || weeklySpending < 0 {
		return fmt.Errorf("%w: negative balance for user %s", domain.ErrInvalidInput, userID)
	}
	tag, err := t.tx.Exec(ctx, `
		UPDATE users
		SET stars = $2, diamonds = $3, weekly_spending = $4, updated_at = $5
		WHERE user_id = $1
	`, userID, balance.Stars, balance.Diamonds, weeklySpending, t.startedAt)
	if err != nil {
		return wrapErr(ErrMsgUpdateBalance, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return nil
}

func (t *economyTx) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	return getCase(ctx, t.tx, caseID)
}

func (t *economyTx) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	return getItem(ctx, t.tx, itemID)
}

func (t *economyTx) AddInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO inventory_items (`+inventoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, item.InventoryID, item.UserID, item.ID, item.Name, item.Rarity, item.StarValue,
		item.IconURL, item.ImageURL, item.BackgroundURL, item.Model3DURL, item.Description,
		item.Status, item.SourceCaseID, item.WonAt)
	if err != nil {
		return wrapErr(ErrMsgAddInventory, err)
	}
	return nil
}

func (t *economyTx) GetInventoryItemForUpdate(ctx context.Context, userID, inventoryID string) (*domain.InventoryItem, error) {
	item, err := scanInventoryItem(t.tx.QueryRow(ctx, `
		SELECT `+inventoryColumns+` FROM inventory_items
		WHERE inventory_id = $1 AND user_id = $2
		FOR UPDATE
	`, inventoryID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, inventoryID)
	}
	if err != nil {
		return nil, wrapErr(ErrMsgGetInventory, err)
	}
	return item, nil
}

func (t *economyTx) UpdateInventoryStatus(ctx context.Context, inventoryID string, status domain.InventoryStatus) error {
	tag, err := t.tx.Exec(ctx, `UPDATE inventory_items SET status = $2 WHERE inventory_id = $1`, inventoryID, status)
	if err != nil {
		return wrapErr(ErrMsgUpdateInventory, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, inventoryID)
	}
	return nil
}

func (t *economyTx) DeleteInventoryItem(ctx context.Context, inventoryID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM inventory_items WHERE inventory_id = $1`, inventoryID)
	if err != nil {
		return wrapErr(ErrMsgDeleteInventory, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, inventoryID)
	}
	return nil
}

func (t *economyTx) AddWithdrawalRequest(ctx context.Context, req domain.WithdrawalRequest) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO withdrawal_requests (withdrawal_id, user_id, inventory_id, item_id, wallet, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, req.ID, req.UserID, req.InventoryID, req.ItemID, req.Wallet, req.CreatedAt)
	if err != nil {
		return wrapErr(ErrMsgAddWithdrawal, err)
	}
	return nil
}

func commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return repository.ErrTxClosed
		}
		return wrapErr(ErrMsgCommitTx, err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return repository.ErrTxClosed
	}
	return err
}
