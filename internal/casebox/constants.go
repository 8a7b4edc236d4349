package casebox

import "time"

// Defaults
const (
	DefaultMaxMultiplier    = 10
	DefaultMaxAttempts      = 3
	DefaultRetryBackoff     = 25 * time.Millisecond
	DefaultUpgradeHouseEdge = 0.10
	DefaultUpgradeMaxChance = 0.95
)

// Operation names used in logs and metric labels
const (
	OpOpenCase = "open_case"
	OpSell     = "sell_item"
	OpWithdraw = "withdraw_item"
	OpUpgrade  = "upgrade_item"
)

// Failure reasons used as metric labels
const (
	ReasonNotFound          = "not_found"
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonIntegrity         = "catalog_integrity"
	ReasonConfiguration     = "configuration"
	ReasonConflict          = "conflict"
	ReasonInvalidInput      = "invalid_input"
	ReasonOther             = "other"
)

// Error message formats
const (
	ErrMsgGetUserFailed           = "failed to get user: %w"
	ErrMsgGetCaseFailed           = "failed to get case: %w"
	ErrMsgGetItemFailed           = "failed to get item: %w"
	ErrMsgGetInventoryItemFailed  = "failed to get inventory item: %w"
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgUpdateBalanceFailed     = "failed to update balance: %w"
	ErrMsgAddInventoryFailed      = "failed to add inventory item: %w"
	ErrMsgUpdateInventoryFailed   = "failed to update inventory item: %w"
	ErrMsgDeleteInventoryFailed   = "failed to delete inventory item: %w"
	ErrMsgAddWithdrawalFailed     = "failed to queue withdrawal: %w"
	ErrMsgDrawFailed              = "failed to draw prize: %w"

	ErrMsgInsufficientFundsFmt = "need %d stars, have %d: %w"
	ErrMsgMissingPrizeFmt      = "%w: case %s drew item %s which is not in the catalog"
	ErrMsgMultiplierRangeFmt   = "%w: %s %d, must be between 1 and %d"
	ErrMsgPriceOverflowFmt     = "%w: price %d x %d overflows"
	ErrMsgRetriesExhaustedFmt  = "%s: %w"
	ErrMsgStatusTransitionFmt  = "%w: %s cannot move from %s to %s"
)

// Log messages
const (
	LogMsgOpenCaseCalled     = "OpenCases called"
	LogMsgCaseOpened         = "Case opened"
	LogMsgSellItemCalled     = "SellItem called"
	LogMsgItemSold           = "Item sold"
	LogMsgWithdrawCalled     = "WithdrawItem called"
	LogMsgWithdrawalQueued   = "Withdrawal queued"
	LogMsgUpgradeCalled      = "Upgrade called"
	LogMsgUpgradeResolved    = "Upgrade resolved"
	LogMsgTxConflict         = "Economy transaction conflict, retrying"
	LogMsgTxFailed           = "Economy transaction failed"
	LogMsgCatalogIntegrity   = "Catalog integrity fault: case references a missing item"
	LogMsgConfigurationFault = "Case configuration fault"
)
