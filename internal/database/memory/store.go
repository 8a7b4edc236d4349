// Package memory is an in-process store with optimistic concurrency control.
// It backs STORE_DRIVER=memory and is the store double used by service tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/repository"
)

type userRow struct {
	user    domain.User
	version uint64
}

type inventoryRow struct {
	item    domain.InventoryItem
	version uint64
}

type fault struct {
	err       error
	remaining int // <= 0 means every call
}

// Store keeps all state behind one mutex. Transactions buffer their writes and
// validate the versions of every row they read at commit time.
type Store struct {
	mu          sync.Mutex
	now         func() time.Time
	users       map[string]*userRow
	byTelegram  map[int64]string
	items       map[string]domain.Item
	cases       map[string]domain.Case
	inventory   map[string]*inventoryRow
	withdrawals []domain.WithdrawalRequest

	faults map[Op]*fault
	hooks  map[Op]func()
}

var _ repository.Store = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used for transaction timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		now:        func() time.Time { return time.Now().UTC() },
		users:      make(map[string]*userRow),
		byTelegram: make(map[int64]string),
		items:      make(map[string]domain.Item),
		cases:      make(map[string]domain.Case),
		inventory:  make(map[string]*inventoryRow),
		faults:     make(map[Op]*fault),
		hooks:      make(map[Op]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Close is a no-op
func (s *Store) Close() {}

// PutUser inserts or replaces a user row directly, bypassing transactions
func (s *Store) PutUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.users[u.ID]; ok {
		row.user = u
		row.version++
	} else {
		s.users[u.ID] = &userRow{user: u, version: 1}
	}
	s.byTelegram[u.TelegramID] = u.ID
}

// PutItem inserts or replaces a catalog item
func (s *Store) PutItem(item domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// PutCase inserts or replaces a case
func (s *Store) PutCase(c domain.Case) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[c.ID] = cloneCase(c)
}

// PutInventoryItem inserts or replaces an owned item directly
func (s *Store) PutInventoryItem(item domain.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.inventory[item.InventoryID]; ok {
		row.item = item
		row.version++
		return
	}
	s.inventory[item.InventoryID] = &inventoryRow{item: item, version: 1}
}

// DeleteItem removes a catalog item, leaving cases that reference it dangling
func (s *Store) DeleteItem(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, itemID)
}

// Withdrawals returns a copy of the queued withdrawal requests
func (s *Store) Withdrawals() []domain.WithdrawalRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WithdrawalRequest(nil), s.withdrawals...)
}

type snapshot struct {
	Users       map[string]domain.User          `json:"users"`
	Items       map[string]domain.Item          `json:"items"`
	Cases       map[string]domain.Case          `json:"cases"`
	Inventory   map[string]domain.InventoryItem `json:"inventory"`
	Withdrawals []domain.WithdrawalRequest      `json:"withdrawals"`
}

// Snapshot serializes the whole committed state. Map keys are sorted by
// encoding/json so equal states produce identical bytes.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		Users:       make(map[string]domain.User, len(s.users)),
		Items:       s.items,
		Cases:       s.cases,
		Inventory:   make(map[string]domain.InventoryItem, len(s.inventory)),
		Withdrawals: s.withdrawals,
	}
	for id, row := range s.users {
		snap.Users[id] = row.user
	}
	for id, row := range s.inventory {
		snap.Inventory[id] = row.item
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// GetUserByID returns a committed user
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	u := row.user
	return &u, nil
}

// GetUserByTelegramID looks a user up by Telegram account
func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byTelegram[telegramID]
	if !ok {
		return nil, fmt.Errorf("%w: telegram_id=%d", domain.ErrUserNotFound, telegramID)
	}
	u := s.users[id].user
	return &u, nil
}

// CreateUser inserts a user keyed by Telegram ID, returning the existing row on duplicates
func (s *Store) CreateUser(ctx context.Context, user domain.User) (*domain.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byTelegram[user.TelegramID]; ok {
		existing := s.users[id].user
		return &existing, false, nil
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = &userRow{user: user, version: 1}
	s.byTelegram[user.TelegramID] = user.ID
	return &user, true, nil
}

// GetInventory returns the user's items, newest first
func (s *Store) GetInventory(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.InventoryItem
	for _, row := range s.inventory {
		if row.item.UserID == userID {
			out = append(out, row.item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WonAt.Equal(out[j].WonAt) {
			return out[i].WonAt.After(out[j].WonAt)
		}
		return out[i].InventoryID < out[j].InventoryID
	})
	return out, nil
}

// TopWeeklySpenders ranks users with non-zero weekly spending
func (s *Store) TopWeeklySpenders(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []domain.User
	for _, row := range s.users {
		if row.user.WeeklySpending > 0 {
			users = append(users, row.user)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].WeeklySpending != users[j].WeeklySpending {
			return users[i].WeeklySpending > users[j].WeeklySpending
		}
		return users[i].Username < users[j].Username
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}

	out := make([]domain.LeaderboardEntry, len(users))
	for i, u := range users {
		out[i] = domain.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         u.ID,
			Username:       u.Username,
			WeeklySpending: u.WeeklySpending,
		}
	}
	return out, nil
}

// ResetWeeklySpending zeroes every accumulator
func (s *Store) ResetWeeklySpending(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	now := s.now()
	for _, row := range s.users {
		if row.user.WeeklySpending == 0 {
			continue
		}
		row.user.WeeklySpending = 0
		row.user.UpdatedAt = now
		row.version++
		n++
	}
	return n, nil
}

func cloneCase(c domain.Case) domain.Case {
	c.Entries = append([]domain.CaseEntry(nil), c.Entries...)
	return c
}
