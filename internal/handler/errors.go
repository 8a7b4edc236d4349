package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidLimit          = "Invalid limit parameter"

	ErrMsgRegisterUserFailed  = "Failed to register user"
	ErrMsgGetProfileFailed    = "Failed to get profile"
	ErrMsgGetInventoryFailed  = "Failed to get inventory"
	ErrMsgOpenCaseFailed      = "Failed to open case"
	ErrMsgSellItemFailed      = "Failed to sell item"
	ErrMsgWithdrawItemFailed  = "Failed to withdraw item"
	ErrMsgUpgradeItemFailed   = "Failed to upgrade item"
	ErrMsgListCatalogFailed   = "Failed to list catalog"
	ErrMsgGetCaseFailed       = "Failed to get case"
	ErrMsgReloadCatalogFailed = "Failed to reload catalog"
	ErrMsgLeaderboardFailed   = "Failed to retrieve leaderboard"
	ErrMsgCreditFailed        = "Failed to credit user"
	ErrMsgWeeklyResetFailed   = "Failed to reset weekly spending"
)

// User-facing messages derived from domain errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgInvalidInputError  = "Invalid request. Please check your inputs."
	ErrMsgTryAgainError      = "The server is busy. Please try again."

	ErrMsgUserNotFoundError          = "User not found"
	ErrMsgCaseNotFoundError          = "Case not found"
	ErrMsgItemNotFoundError          = "Item not found"
	ErrMsgInventoryItemNotFoundError = "You don't have that item"
	ErrMsgInsufficientFundsError     = "Not enough stars"
	ErrMsgItemNotActiveError         = "That item is no longer in your inventory"
	ErrMsgNotWithdrawableError       = "Only NFT items can be withdrawn"
	ErrMsgInvalidUpgradeError        = "Pick an upgrade target worth more than your item"
	ErrMsgCaseUnavailableError       = "This case is temporarily unavailable"
	ErrMsgResourceNotFoundError      = "Resource not found"
)

// Success messages
const (
	MsgCatalogReloaded = "Catalog reloaded"
	MsgWeeklyReset     = "Weekly spending reset"
)

// Log messages
const (
	LogMsgServiceError   = "Service call failed"
	LogMsgEncodeFailed   = "Failed to encode JSON response"
	LogMsgWriteFailed    = "Failed to write response buffer"
	LogMsgReadyzFailed   = "Readiness check failed"
	LogMsgUserRegistered = "User registered"
	LogMsgCaseOpened     = "Case opened"
	LogMsgItemSold       = "Item sold"
	LogMsgItemWithdrawn  = "Withdrawal requested"
	LogMsgItemUpgraded   = "Upgrade resolved"
	LogMsgUserCredited   = "User credited by admin"
	LogMsgCatalogReload  = "Catalog reloaded by admin"
	LogMsgWeeklyReset    = "Weekly spending reset by admin"
)
