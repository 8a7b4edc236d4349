package user

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/StarCase_Go/internal/database/memory"
	"github.com/osse101/StarCase_Go/internal/domain"
)

func newTestService(starting int64) (*memory.Store, Service) {
	store := memory.New()
	return store, NewService(store, Config{StartingStars: starting})
}

func TestRegister_CreditsStartingStarsOnce(t *testing.T) {
	store, svc := newTestService(100)
	ctx := context.Background()

	u, created, err := svc.Register(ctx, 42, "  alice ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, int64(100), u.Balance.Stars)

	again, created, err := svc.Register(ctx, 42, "alice_renamed")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, int64(100), again.Balance.Stars, "second registration must not credit again")

	stored, err := store.GetUserByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
}

func TestRegister_ConcurrentSameTelegramID(t *testing.T) {
	_, svc := newTestService(50)
	ctx := context.Background()

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = make(map[string]bool)
		created int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			u, c, err := svc.Register(ctx, 7, "bob")
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			ids[u.ID] = true
			if c {
				created++
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, 1, created)
}

func TestRegister_Validation(t *testing.T) {
	_, svc := newTestService(0)

	tests := []struct {
		name       string
		telegramID int64
		username   string
	}{
		{"zero telegram id", 0, "alice"},
		{"negative telegram id", -5, "alice"},
		{"blank username", 1, "   "},
		{"long username", 1, strings.Repeat("x", MaxUsernameLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.telegramID, tt.username)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestGetProfile(t *testing.T) {
	_, svc := newTestService(10)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, 99, "carol")
	require.NoError(t, err)

	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	byTelegram, err := svc.GetProfileByTelegramID(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byTelegram.ID)

	_, err = svc.GetProfile(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.GetProfileByTelegramID(ctx, 100)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetProfile(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetInventory_NewestFirst(t *testing.T) {
	store, svc := newTestService(0)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, 5, "dave")
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.PutInventoryItem(domain.InventoryItem{InventoryID: "old", UserID: u.ID, Status: domain.StatusWon, WonAt: base, Item: domain.Item{ID: "a"}})
	store.PutInventoryItem(domain.InventoryItem{InventoryID: "new", UserID: u.ID, Status: domain.StatusWon, WonAt: base.Add(time.Hour), Item: domain.Item{ID: "b"}})
	store.PutInventoryItem(domain.InventoryItem{InventoryID: "other", UserID: "someone-else", Status: domain.StatusWon, WonAt: base, Item: domain.Item{ID: "c"}})

	items, err := svc.GetInventory(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].InventoryID)
	assert.Equal(t, "old", items[1].InventoryID)

	_, err = svc.GetInventory(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetInventory_EmptyIsNotNil(t *testing.T) {
	_, svc := newTestService(0)
	u, _, err := svc.Register(context.Background(), 6, "erin")
	require.NoError(t, err)

	items, err := svc.GetInventory(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCredit(t *testing.T) {
	_, svc := newTestService(10)
	ctx := context.Background()
	u, _, err := svc.Register(ctx, 1, "frank")
	require.NoError(t, err)

	balance, err := svc.Credit(ctx, u.ID, 90, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.Balance{Stars: 100, Diamonds: 3}, *balance)

	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, *balance, got.Balance)
	assert.Zero(t, got.WeeklySpending, "credits never count as spending")
}

func TestCredit_Rejections(t *testing.T) {
	_, svc := newTestService(10)
	ctx := context.Background()
	u, _, err := svc.Register(ctx, 1, "gina")
	require.NoError(t, err)

	_, err = svc.Credit(ctx, u.ID, -1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Credit(ctx, u.ID, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Credit(ctx, "ghost", 5, 0)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCredit_RetriesConflicts(t *testing.T) {
	store, svc := newTestService(10)
	ctx := context.Background()
	u, _, err := svc.Register(ctx, 1, "hank")
	require.NoError(t, err)

	store.InjectFault(memory.OpCommit, domain.ErrStoreConflict, 1)
	balance, err := svc.Credit(ctx, u.ID, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(15), balance.Stars)

	store.InjectFault(memory.OpCommit, domain.ErrStoreConflict, 0)
	_, err = svc.Credit(ctx, u.ID, 5, 0)
	require.ErrorIs(t, err, domain.ErrTryAgain)

	store.ClearFaults()
	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), got.Balance.Stars)
}

func TestCredit_StopsRetryingWhenContextEnds(t *testing.T) {
	store, svc := newTestService(10)
	u, _, err := svc.Register(context.Background(), 1, "ivy")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var begins atomic.Int32
	store.OnOp(memory.OpBeginTx, func() {
		if begins.Add(1) == 1 {
			cancel()
		}
	})
	store.InjectFault(memory.OpCommit, domain.ErrStoreConflict, 0)

	_, err = svc.Credit(ctx, u.ID, 5, 0)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), begins.Load())
}
