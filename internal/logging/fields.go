// Package logging provides structured logging built on log/slog.
package logging

// Standard field names shared across the service so log lines stay
// machine-parseable and consistent.
const (
	FieldService         = "service"
	FieldRequestID       = "request_id"
	FieldError           = "error"
	FieldHTTPMethod      = "method"
	FieldHTTPPath        = "path"
	FieldHTTPStatus      = "status"
	FieldLatencyMs       = "latency_ms"
	FieldOperation       = "operation"
	FieldSubscriberEmail = "subscriber_email"
	FieldSubscriberName  = "subscriber_name"
)

// Recognized log levels.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)
