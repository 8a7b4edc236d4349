package postgres

// PostgreSQL error codes
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
)

// Error messages
const (
	ErrMsgBeginTx          = "failed to begin transaction"
	ErrMsgCommitTx         = "failed to commit transaction"
	ErrMsgGetUser          = "failed to get user"
	ErrMsgCreateUser       = "failed to create user"
	ErrMsgUpdateBalance    = "failed to update balance"
	ErrMsgGetItem          = "failed to get item"
	ErrMsgListItems        = "failed to list items"
	ErrMsgGetCase          = "failed to get case"
	ErrMsgListCases        = "failed to list cases"
	ErrMsgUpsertItem       = "failed to upsert item"
	ErrMsgUpsertCase       = "failed to upsert case"
	ErrMsgAddInventory     = "failed to add inventory item"
	ErrMsgGetInventory     = "failed to get inventory"
	ErrMsgUpdateInventory  = "failed to update inventory item"
	ErrMsgDeleteInventory  = "failed to delete inventory item"
	ErrMsgAddWithdrawal    = "failed to add withdrawal request"
	ErrMsgLeaderboard      = "failed to query leaderboard"
	ErrMsgResetLeaderboard = "failed to reset weekly spending"
)
