package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgNotFound              = "not found"
	ErrMsgUserNotFound          = "user not found"
	ErrMsgCaseNotFound          = "case not found"
	ErrMsgItemNotFound          = "item not found"
	ErrMsgInventoryItemNotFound = "inventory item not found"

	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgItemNotActive     = "item is no longer in the inventory"
	ErrMsgNotWithdrawable   = "only NFT items can be withdrawn"
	ErrMsgInvalidUpgrade    = "upgrade target must be worth more than the source item"

	ErrMsgCatalogIntegrity       = "catalog integrity fault"
	ErrMsgEmptyProbabilityTable  = "case has an empty probability table"
	ErrMsgInvalidProbability     = "invalid probability table"
	ErrMsgStoreConflict          = "store conflict"
	ErrMsgTryAgain               = "the operation could not be completed, try again"
	ErrMsgInvalidInput           = "invalid input"
	ErrMsgInvalidMultiplier      = "invalid multiplier"
	ErrMsgNegativeBalanceRequest = "amount must not be negative"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrNotFound is the parent of every lookup miss; match it with errors.Is.
	ErrNotFound = errors.New(ErrMsgNotFound)

	ErrUserNotFound          = notFound(ErrMsgUserNotFound)
	ErrCaseNotFound          = notFound(ErrMsgCaseNotFound)
	ErrItemNotFound          = notFound(ErrMsgItemNotFound)
	ErrInventoryItemNotFound = notFound(ErrMsgInventoryItemNotFound)

	// Economy errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrItemNotActive     = errors.New(ErrMsgItemNotActive)
	ErrNotWithdrawable   = errors.New(ErrMsgNotWithdrawable)
	ErrInvalidUpgrade    = errors.New(ErrMsgInvalidUpgrade)

	// ErrCatalogIntegrity means a case references an item the catalog does not have.
	ErrCatalogIntegrity = errors.New(ErrMsgCatalogIntegrity)
	// ErrEmptyProbabilityTable is a configuration error, never a user error.
	ErrEmptyProbabilityTable = errors.New(ErrMsgEmptyProbabilityTable)
	ErrInvalidProbability    = errors.New(ErrMsgInvalidProbability)

	// ErrStoreConflict is returned by stores when a transaction lost a race.
	// Services retry on it and surface ErrTryAgain once the budget is spent.
	ErrStoreConflict = errors.New(ErrMsgStoreConflict)
	ErrTryAgain      = errors.New(ErrMsgTryAgain)

	// Input errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

type notFoundError struct {
	msg string
}

func notFound(msg string) error {
	return &notFoundError{msg: msg}
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }
