package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/repository"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	s.PutUser(domain.User{ID: "u1", TelegramID: 100, Username: "alice", Balance: domain.Balance{Stars: 500}})
	s.PutItem(domain.Item{ID: "gem", Name: "Gem", Rarity: domain.RarityRare, StarValue: 50})
	return s
}

func TestCommitAppliesBufferedWrites(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	u, err := tx.GetUserForUpdate(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, tx.UpdateUserBalance(ctx, "u1", domain.Balance{Stars: u.Balance.Stars - 100}, 100))
	require.NoError(t, tx.AddInventoryItem(ctx, domain.InventoryItem{InventoryID: "inv1", UserID: "u1", Status: domain.StatusWon}))

	// Nothing is visible before commit
	committed, err := s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), committed.Balance.Stars)

	require.NoError(t, tx.Commit(ctx))

	committed, err = s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(400), committed.Balance.Stars)
	assert.Equal(t, int64(100), committed.WeeklySpending)

	inv, err := s.GetInventory(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, inv, 1)

	assert.ErrorIs(t, tx.Rollback(ctx), repository.ErrTxClosed)
}

func TestConcurrentWritersConflict(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	tx1, err := s.BeginTx(ctx)
	require.NoError(t, err)
	tx2, err := s.BeginTx(ctx)
	require.NoError(t, err)

	_, err = tx1.GetUserForUpdate(ctx, "u1")
	require.NoError(t, err)
	_, err = tx2.GetUserForUpdate(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, tx1.UpdateUserBalance(ctx, "u1", domain.Balance{Stars: 0}, 500))
	require.NoError(t, tx2.UpdateUserBalance(ctx, "u1", domain.Balance{Stars: 0}, 500))

	require.NoError(t, tx1.Commit(ctx))
	err = tx2.Commit(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreConflict)
	require.NoError(t, tx2.Rollback(ctx))
}

func TestRollbackLeavesSnapshotUnchanged(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	before, err := s.Snapshot()
	require.NoError(t, err)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpdateUserBalance(ctx, "u1", domain.Balance{Stars: 1}, 499))
	require.NoError(t, tx.AddInventoryItem(ctx, domain.InventoryItem{InventoryID: "x", UserID: "u1"}))
	require.NoError(t, tx.Rollback(ctx))

	after, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestInjectedFaults(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	boom := errors.New("disk on fire")
	s.InjectFault(OpAddInventoryItem, boom, 1)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, tx.AddInventoryItem(ctx, domain.InventoryItem{InventoryID: "a"}), boom)
	assert.NoError(t, tx.AddInventoryItem(ctx, domain.InventoryItem{InventoryID: "b"}), "one-shot fault should clear")
	require.NoError(t, tx.Rollback(ctx))

	s.InjectFault(OpCommit, domain.ErrStoreConflict, 0)
	for i := 0; i < 3; i++ {
		tx, err := s.BeginTx(ctx)
		require.NoError(t, err)
		assert.ErrorIs(t, tx.Commit(ctx), domain.ErrStoreConflict)
		require.NoError(t, tx.Rollback(ctx))
	}
	s.ClearFaults()
}

func TestUpdateUserBalanceRejectsNegative(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	err = tx.UpdateUserBalance(ctx, "u1", domain.Balance{Stars: -1}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInventoryOwnershipAndDeletion(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	tx, _ := s.BeginTx(ctx)
	require.NoError(t, tx.AddInventoryItem(ctx, domain.InventoryItem{InventoryID: "inv", UserID: "u1", Status: domain.StatusWon}))
	require.NoError(t, tx.Commit(ctx))

	tx, _ = s.BeginTx(ctx)
	defer repository.SafeRollback(ctx, tx)

	_, err := tx.GetInventoryItemForUpdate(ctx, "someone-else", "inv")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	item, err := tx.GetInventoryItemForUpdate(ctx, "u1", "inv")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWon, item.Status)

	require.NoError(t, tx.DeleteInventoryItem(ctx, "inv"))
	_, err = tx.GetInventoryItemForUpdate(ctx, "u1", "inv")
	assert.ErrorIs(t, err, domain.ErrInventoryItemNotFound)
	assert.ErrorIs(t, tx.DeleteInventoryItem(ctx, "inv"), domain.ErrInventoryItemNotFound)
	require.NoError(t, tx.Commit(ctx))

	inv, err := s.GetInventory(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, inv)
}

func TestCreateUserIsIdempotentOnTelegramID(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, created, err := s.CreateUser(ctx, domain.User{TelegramID: 7, Username: "bob", Balance: domain.Balance{Stars: 100}})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.ID)

	second, created, err := s.CreateUser(ctx, domain.User{TelegramID: 7, Username: "bobby"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "bob", second.Username)
}

func TestLeaderboardAndReset(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutUser(domain.User{ID: "a", TelegramID: 1, Username: "a", WeeklySpending: 10})
	s.PutUser(domain.User{ID: "b", TelegramID: 2, Username: "b", WeeklySpending: 30})
	s.PutUser(domain.User{ID: "c", TelegramID: 3, Username: "c"})

	top, err := s.TopWeeklySpenders(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].UserID)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, 2, top[1].Rank)

	n, err := s.ResetWeeklySpending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	top, err = s.TopWeeklySpenders(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestCatalogTx(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx, err := s.BeginCatalogTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpsertItem(ctx, domain.Item{ID: "x", Name: "X"}))
	require.NoError(t, tx.UpsertCase(ctx, domain.Case{ID: "c", Price: 5, Entries: []domain.CaseEntry{{ItemID: "x", Probability: 1}}}))

	_, err = s.GetCase(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrCaseNotFound)

	require.NoError(t, tx.Commit(ctx))

	c, err := s.GetCase(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "x", c.Entries[0].ItemID)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
