package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/repository"
)

type economyTx struct {
	s         *Store
	startedAt time.Time
	closed    bool

	readUsers map[string]uint64
	readInv   map[string]uint64

	userWrites  map[string]domain.User
	invAdds     map[string]domain.InventoryItem
	invStatus   map[string]domain.InventoryStatus
	invDeletes  map[string]bool
	withdrawals []domain.WithdrawalRequest
}

// BeginTx opens an optimistic transaction
func (s *Store) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	if err := s.enter(OpBeginTx); err != nil {
		return nil, err
	}
	return &economyTx{
		s:          s,
		startedAt:  s.now(),
		readUsers:  make(map[string]uint64),
		readInv:    make(map[string]uint64),
		userWrites: make(map[string]domain.User),
		invAdds:    make(map[string]domain.InventoryItem),
		invStatus:  make(map[string]domain.InventoryStatus),
		invDeletes: make(map[string]bool),
	}, nil
}

func (t *economyTx) StartedAt() time.Time { return t.startedAt }

func (t *economyTx) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	if err := t.s.enter(OpGetUserForUpdate); err != nil {
		return nil, err
	}
	if u, ok := t.userWrites[userID]; ok {
		return &u, nil
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	row, ok := t.s.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	if _, seen := t.readUsers[userID]; !seen {
		t.readUsers[userID] = row.version
	}
	u := row.user
	return &u, nil
}

func (t *economyTx) UpdateUserBalance(ctx context.Context, userID string, balance domain.Balance, weeklySpending int64) error {
	if err := t.s.enter(OpUpdateUserBalance); err != nil {
		return err
	}
	if balance.Stars < 0 || balance.Diamonds < 0 || weeklySpending < 0 {
		return fmt.Errorf("%w: negative balance for user %s", domain.ErrInvalidInput, userID)
	}

	u, ok := t.userWrites[userID]
	if !ok {
		current, err := t.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		u = *current
	}
	u.Balance = balance
	u.WeeklySpending = weeklySpending
	u.UpdatedAt = t.startedAt
	t.userWrites[userID] = u
	return nil
}

func (t *economyTx) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	if err := t.s.enter(OpGetCase); err != nil {
		return nil, err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	c, ok := t.s.cases[caseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, caseID)
	}
	c = cloneCase(c)
	return &c, nil
}

func (t *economyTx) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	if err := t.s.enter(OpGetItem); err != nil {
		return nil, err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	item, ok := t.s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return &item, nil
}

func (t *economyTx) AddInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	if err := t.s.enter(OpAddInventoryItem); err != nil {
		return err
	}
	t.invAdds[item.InventoryID] = item
	return nil
}

func (t *economyTx) GetInventoryItemForUpdate(ctx context.Context, userID, inventoryID string) (*domain.InventoryItem, error) {
	if err := t.s.enter(OpGetInventoryItem); err != nil {
		return nil, err
	}
	notFound := fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, inventoryID)
	if t.invDeletes[inventoryID] {
		return nil, notFound
	}

	var item domain.InventoryItem
	if added, ok := t.invAdds[inventoryID]; ok {
		item = added
	} else {
		t.s.mu.Lock()
		row, ok := t.s.inventory[inventoryID]
		if ok {
			item = row.item
			if _, seen := t.readInv[inventoryID]; !seen {
				t.readInv[inventoryID] = row.version
			}
		}
		t.s.mu.Unlock()
		if !ok {
			return nil, notFound
		}
	}

	if item.UserID != userID {
		return nil, notFound
	}
	if status, ok := t.invStatus[inventoryID]; ok {
		item.Status = status
	}
	return &item, nil
}

func (t *economyTx) UpdateInventoryStatus(ctx context.Context, inventoryID string, status domain.InventoryStatus) error {
	if err := t.s.enter(OpUpdateInventoryStatus); err != nil {
		return err
	}
	if added, ok := t.invAdds[inventoryID]; ok {
		added.Status = status
		t.invAdds[inventoryID] = added
		return nil
	}
	t.s.mu.Lock()
	row, ok := t.s.inventory[inventoryID]
	if ok {
		if _, seen := t.readInv[inventoryID]; !seen {
			t.readInv[inventoryID] = row.version
		}
	}
	t.s.mu.Unlock()
	if !ok || t.invDeletes[inventoryID] {
		return fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, inventoryID)
	}
	t.invStatus[inventoryID] = status
	return nil
}

func (t *economyTx) DeleteInventoryItem(ctx context.Context, inventoryID string) error {
	if err := t.s.enter(OpDeleteInventoryItem); err != nil {
		return err
	}
	if _, ok := t.invAdds[inventoryID]; ok {
		delete(t.invAdds, inventoryID)
		return nil
	}
	t.s.mu.Lock()
	row, ok := t.s.inventory[inventoryID]
	if ok {
		if _, seen := t.readInv[inventoryID]; !seen {
			t.readInv[inventoryID] = row.version
		}
	}
	t.s.mu.Unlock()
	if !ok || t.invDeletes[inventoryID] {
		return fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, inventoryID)
	}
	t.invDeletes[inventoryID] = true
	delete(t.invStatus, inventoryID)
	return nil
}

func (t *economyTx) AddWithdrawalRequest(ctx context.Context, req domain.WithdrawalRequest) error {
	if err := t.s.enter(OpAddWithdrawal); err != nil {
		return err
	}
	t.withdrawals = append(t.withdrawals, req)
	return nil
}

// Commit validates every row version read by the transaction and applies the
// buffered writes, or fails with domain.ErrStoreConflict.
func (t *economyTx) Commit(ctx context.Context) error {
	if t.closed {
		return repository.ErrTxClosed
	}
	if err := t.s.enter(OpCommit); err != nil {
		return err
	}

	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, version := range t.readUsers {
		row, ok := s.users[id]
		if !ok || row.version != version {
			return fmt.Errorf("%w: user %s changed", domain.ErrStoreConflict, id)
		}
	}
	for id, version := range t.readInv {
		row, ok := s.inventory[id]
		if !ok || row.version != version {
			return fmt.Errorf("%w: inventory item %s changed", domain.ErrStoreConflict, id)
		}
	}

	for id, u := range t.userWrites {
		row := s.users[id]
		row.user = u
		row.version++
	}
	for id, item := range t.invAdds {
		s.inventory[id] = &inventoryRow{item: item, version: 1}
	}
	for id, status := range t.invStatus {
		row := s.inventory[id]
		row.item.Status = status
		row.version++
	}
	for id := range t.invDeletes {
		delete(s.inventory, id)
	}
	s.withdrawals = append(s.withdrawals, t.withdrawals...)

	t.closed = true
	return nil
}

func (t *economyTx) Rollback(ctx context.Context) error {
	if t.closed {
		return repository.ErrTxClosed
	}
	t.closed = true
	return nil
}
