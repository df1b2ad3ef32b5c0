package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelVariable is the environment variable controlling the log filter.
const LevelVariable = "LOG_LEVEL"

// Logger wraps slog.Logger with request- and subscription-scoped derivation
// helpers. Derived loggers share the underlying handler; the wrapper is
// cheap to copy.
type Logger struct {
	*slog.Logger
	service string
}

// New builds a structured JSON logger for the named service, filtering at
// the given level and writing to sink. A nil sink defaults to stdout.
func New(service, level string, sink io.Writer) *Logger {
	if sink == nil {
		sink = os.Stdout
	}
	handler := slog.NewJSONHandler(sink, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return &Logger{
		Logger:  slog.New(handler).With(slog.String(FieldService, service)),
		service: service,
	}
}

// LevelFromEnv reads LOG_LEVEL, falling back to the given default when the
// variable is unset or empty.
func LevelFromEnv(fallback string) string {
	if v := os.Getenv(LevelVariable); v != "" {
		return v
	}
	return fallback
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn, "warning":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID derives a logger that stamps every line with the request's
// correlation id.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger:  l.Logger.With(slog.String(FieldRequestID, requestID)),
		service: l.service,
	}
}

// WithSubscription derives a logger carrying the subscription span fields.
func (l *Logger) WithSubscription(email, name string) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.String(FieldSubscriberEmail, email),
			slog.String(FieldSubscriberName, name),
		),
		service: l.service,
	}
}

// WithError derives a logger carrying an error field.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return &Logger{
		Logger:  l.Logger.With(slog.String(FieldError, err.Error())),
		service: l.service,
	}
}

// Request logs one completed HTTP request at info level.
func (l *Logger) Request(requestID, method, path string, status int, latencyMs int64) {
	l.WithRequestID(requestID).Info("request completed",
		slog.String(FieldHTTPMethod, method),
		slog.String(FieldHTTPPath, path),
		slog.Int(FieldHTTPStatus, status),
		slog.Int64(FieldLatencyMs, latencyMs),
	)
}
