package user

import "time"

// Defaults
const (
	DefaultStartingStars = 100
	DefaultMaxAttempts   = 3

	// DefaultCacheSize bounds the telegram ID lookup cache
	DefaultCacheSize = 1000
	// DefaultCacheTTL is the time-to-live for telegram ID lookups
	DefaultCacheTTL = 10 * time.Minute

	MaxUsernameLength = 64
)

// Operation names used in logs and metric labels
const (
	OpCredit = "credit_user"
)

// Error messages
const (
	ErrMsgInvalidTelegramID = "%w: telegram_id must be positive"
	ErrMsgInvalidUsername   = "%w: username must be 1-%d characters"
	ErrMsgMissingUserID     = "%w: user_id is required"
	ErrMsgNegativeAmount    = "%w: %s"
	ErrMsgEmptyCredit       = "%w: nothing to credit"
	ErrMsgCreateUserFailed  = "failed to create user: %w"
	ErrMsgCreditFailed      = "failed to credit user: %w"
	ErrMsgCreditRetriesFmt  = "credit: %w"
)

// Log messages
const (
	LogMsgUserRegistered    = "User registered"
	LogMsgUserAlreadyExists = "User already registered"
	LogMsgUserCredited      = "User credited"
	LogMsgCreditConflict    = "Credit transaction conflict, retrying"
)
