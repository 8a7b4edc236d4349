package repository

import (
	"context"
	"errors"

	"github.com/osse101/StarCase_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error.
// Meant to be deferred right after BeginTx; a rollback after commit is a no-op.
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}
