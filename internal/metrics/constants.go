package metrics

// Metric namespace shared by every collector
const Namespace = "starcase"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameAuthFailures         = "http_auth_failures_total"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameCasesOpened      = "cases_opened_total"
	MetricNameStarsSpent       = "stars_spent_total"
	MetricNameItemsWon         = "items_won_total"
	MetricNameItemsSold        = "items_sold_total"
	MetricNameItemsWithdrawn   = "items_withdrawn_total"
	MetricNameUpgrades         = "upgrades_total"
	MetricNameTxRetries        = "tx_retries_total"
	MetricNameTxFailures       = "tx_failures_total"
	MetricNameIntegrityFaults  = "catalog_integrity_faults_total"
	MetricNameNotifications    = "telegram_notifications_total"
	MetricNameLeaderboardReset = "leaderboard_resets_total"
	MetricNameUsersRegistered  = "users_registered_total"
	MetricNameFeedSubscribers  = "feed_stream_subscribers"
)

// Metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextEventsPublished      = "Total number of events published"
	HelpTextEventHandlerErrors   = "Total number of event handler errors"
	HelpTextCasesOpened          = "Total number of cases opened, counting each multiplier draw"
	HelpTextStarsSpent           = "Total stars debited by case openings"
	HelpTextItemsWon             = "Total number of items won by rarity"
	HelpTextItemsSold            = "Total number of inventory items sold back for stars"
	HelpTextItemsWithdrawn       = "Total number of NFT withdrawals queued"
	HelpTextUpgrades             = "Total number of upgrade attempts by outcome"
	HelpTextTxRetries            = "Total number of economy transaction retries after a store conflict"
	HelpTextTxFailures           = "Total number of economy transactions that failed by reason"
	HelpTextIntegrityFaults      = "Total number of draws that referenced an item missing from the catalog"
	HelpTextNotifications        = "Total number of Telegram notifications by status"
	HelpTextLeaderboardReset     = "Total number of weekly leaderboard resets"
	HelpTextUsersRegistered      = "Total number of newly registered users"
	HelpTextFeedSubscribers      = "Current number of live feed stream subscribers"
	HelpTextAuthFailures         = "Total number of requests rejected for a missing or wrong API key"
)

// Label names
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelCase      = "case"
	LabelRarity    = "rarity"
	LabelOperation = "operation"
	LabelReason    = "reason"
	LabelOutcome   = "outcome"
)

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Log messages
const (
	LogMsgUnexpectedPayload = "Unexpected event payload for metrics"
)
