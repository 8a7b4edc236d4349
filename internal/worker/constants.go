package worker

// DefaultWeeklyResetSchedule fires every Monday at 00:00 in the worker's location
const DefaultWeeklyResetSchedule = "0 0 * * 1"

// Log messages for the weekly reset worker
const (
	LogMsgWeeklyResetScheduled     = "Weekly reset scheduled"
	LogMsgWeeklyResetStarting      = "Weekly reset starting"
	LogMsgWeeklyResetCompleted     = "Weekly reset completed"
	LogMsgWeeklyResetFailed        = "Weekly reset failed"
	LogMsgWeeklyResetManualTrigger = "Weekly reset manually triggered"
	LogMsgShuttingDown             = "Shutting down weekly reset worker"
	LogMsgShutdownComplete         = "Weekly reset worker shutdown complete"
	LogMsgShutdownTimeout          = "Weekly reset worker shutdown timeout"
)

// Error messages
const (
	ErrMsgInvalidSchedule = "invalid weekly reset schedule %q: %w"
	ErrMsgResetFailed     = "weekly reset failed: %w"
	ErrMsgWorkerStopped   = "weekly reset worker is stopped"
)
