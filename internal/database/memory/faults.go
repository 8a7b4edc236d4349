package memory

// Op names a store operation that faults and hooks can target
type Op string

const (
	OpBeginTx               Op = "begin_tx"
	OpGetUserForUpdate      Op = "get_user_for_update"
	OpUpdateUserBalance     Op = "update_user_balance"
	OpGetCase               Op = "get_case"
	OpGetItem               Op = "get_item"
	OpAddInventoryItem      Op = "add_inventory_item"
	OpGetInventoryItem      Op = "get_inventory_item"
	OpUpdateInventoryStatus Op = "update_inventory_status"
	OpDeleteInventoryItem   Op = "delete_inventory_item"
	OpAddWithdrawal         Op = "add_withdrawal"
	OpCommit                Op = "commit"
)

// InjectFault makes op fail with err. times <= 0 fails every call until ClearFaults.
func (s *Store) InjectFault(op Op, err error, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = &fault{err: err, remaining: times}
}

// OnOp runs fn at the start of every call to op, outside the store lock.
func (s *Store) OnOp(op Op, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[op] = fn
}

// ClearFaults removes all injected faults and hooks
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[Op]*fault)
	s.hooks = make(map[Op]func())
}

// enter runs the hook for op and returns its injected fault, if any
func (s *Store) enter(op Op) error {
	s.mu.Lock()
	hook := s.hooks[op]
	s.mu.Unlock()

	if hook != nil {
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.faults[op]
	if !ok {
		return nil
	}
	if f.remaining > 0 {
		f.remaining--
		if f.remaining == 0 {
			delete(s.faults, op)
		}
	}
	return f.err
}
