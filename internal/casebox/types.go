package casebox

import (
	"time"

	"github.com/osse101/StarCase_Go/internal/domain"
)

// Config tunes the transaction manager
type Config struct {
	MaxMultiplier    int
	MaxAttempts      int
	RetryBackoff     time.Duration
	UpgradeHouseEdge float64
	UpgradeMaxChance float64
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{
		MaxMultiplier:    DefaultMaxMultiplier,
		MaxAttempts:      DefaultMaxAttempts,
		RetryBackoff:     DefaultRetryBackoff,
		UpgradeHouseEdge: DefaultUpgradeHouseEdge,
		UpgradeMaxChance: DefaultUpgradeMaxChance,
	}
}

// Prize is one draw of an opening. Currency prizes carry no inventory item.
type Prize struct {
	Item          domain.Item           `json:"item"`
	InventoryItem *domain.InventoryItem `json:"inventory_item,omitempty"`
	StarsCredited int64                 `json:"stars_credited,omitempty"`
}

// OpenResult is returned by a committed case opening
type OpenResult struct {
	CaseID     string         `json:"case_id"`
	Multiplier int            `json:"multiplier"`
	Spent      int64          `json:"spent"`
	Prizes     []Prize        `json:"prizes"`
	Balance    domain.Balance `json:"balance"`
	OpenedAt   time.Time      `json:"opened_at"`
}

// SellResult is returned by a committed sale
type SellResult struct {
	InventoryID   string         `json:"inventory_id"`
	StarsCredited int64          `json:"stars_credited"`
	Balance       domain.Balance `json:"balance"`
}

// WithdrawResult is returned by a committed withdrawal
type WithdrawResult struct {
	Request domain.WithdrawalRequest `json:"request"`
	Item    domain.InventoryItem     `json:"item"`
}

// UpgradeResult is returned by a committed upgrade attempt
type UpgradeResult struct {
	Success bool                  `json:"success"`
	Chance  float64               `json:"chance"`
	Roll    float64               `json:"roll"`
	Source  domain.InventoryItem  `json:"source"`
	Item    *domain.InventoryItem `json:"item,omitempty"`
}
