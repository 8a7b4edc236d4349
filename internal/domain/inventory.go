package domain

import "time"

// InventoryStatus is the lifecycle state of an owned item
type InventoryStatus string

const (
	StatusWon       InventoryStatus = "won"
	StatusExchanged InventoryStatus = "exchanged"
	StatusShipped   InventoryStatus = "shipped"
)

// CanTransitionTo reports whether the status may move to next.
// Transitions only leave StatusWon.
func (s InventoryStatus) CanTransitionTo(next InventoryStatus) bool {
	return s == StatusWon && (next == StatusExchanged || next == StatusShipped)
}

// InventoryItem is a copy of a catalog item owned by one user
type InventoryItem struct {
	Item
	InventoryID  string          `json:"inventory_id" db:"inventory_id"`
	UserID       string          `json:"user_id" db:"user_id"`
	Status       InventoryStatus `json:"status" db:"status"`
	WonAt        time.Time       `json:"won_at" db:"won_at"`
	SourceCaseID string          `json:"source_case_id,omitempty" db:"source_case_id"`
}

// WithdrawalRequest queues an NFT for delivery to an external wallet
type WithdrawalRequest struct {
	ID          string    `json:"withdrawal_id" db:"withdrawal_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	InventoryID string    `json:"inventory_id" db:"inventory_id"`
	ItemID      string    `json:"item_id" db:"item_id"`
	Wallet      string    `json:"wallet" db:"wallet"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
