package middleware

// HTTP header names
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAPIKey        = "X-API-Key"
	HeaderAuthorization = "Authorization"
	HeaderCookie        = "Cookie"
)

// RedactedValue replaces secret header values in logs
const RedactedValue = "[REDACTED]"

// Log messages
const (
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgPanicRecovered   = "Panic recovered in HTTP handler"
)

// quietPathPrefixes are probed constantly and are not logged
var quietPathPrefixes = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// maxRequestIDLength bounds client-supplied request IDs
const maxRequestIDLength = 64
