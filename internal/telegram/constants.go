package telegram

import "time"

// Defaults
const (
	DefaultQueueSize   = 100
	DefaultSendTimeout = 10 * time.Second
	PollTimeoutSeconds = 30
)

// Commands
const (
	CommandStart   = "/start"
	CommandBalance = "/balance"
	CommandHelp    = "/help"
)

// Notification statuses used as metric labels
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusDropped = "dropped"
	StatusSkipped = "skipped"
)

// Reply templates. Values are HTML-escaped before formatting.
const (
	TmplCaseDrop     = "🎁 <b>%s</b> opened <b>%s</b> and won <b>%s</b> (%s, %d ★)"
	TmplUpgradeDrop  = "⬆️ <b>%s</b> upgraded into <b>%s</b> (%s, %d ★) at %.1f%% odds"
	TmplWelcome      = "Welcome, <b>%s</b>! Your balance is %d ★ and %d 💎."
	TmplWelcomeBack  = "Welcome back, <b>%s</b>! Your balance is %d ★ and %d 💎."
	TmplBalance      = "Balance: %d ★, %d 💎\nSpent this week: %d ★"
	MsgNotRegistered = "You are not registered yet. Send /start first."
	MsgHelp          = "/start registers you and credits your starting stars\n/balance shows your balance"
	MsgFailure       = "Something went wrong, try again later."
	AnonymousName    = "Someone"
)

// Log messages
const (
	LogMsgNotifierStarted = "Telegram notifier started"
	LogMsgNotifierStopped = "Telegram notifier stopped"
	LogMsgNotifyFailed    = "Failed to send Telegram notification"
	LogMsgNotifyQueueFull = "Telegram notification queue full, message dropped"
	LogMsgDecodeFailed    = "Telegram notifier could not decode event payload"
	LogMsgBotStarted      = "Telegram bot polling for updates"
	LogMsgBotStopped      = "Telegram bot stopped"
	LogMsgCommandFailed   = "Telegram command failed"
	LogMsgReplyFailed     = "Failed to send Telegram reply"
)
