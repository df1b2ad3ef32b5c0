package middleware

import (
	"net/http"
	"time"

	"github.com/mailcrate/mailcrate/internal/logging"
)

// Logging emits one structured access-log line per request, carrying the
// correlation id, method, path, status and latency. It must sit after
// RequestID in the chain so the id is already in the context.
func Logging(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := NewResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			logger.Request(
				RequestIDFromContext(r.Context()),
				r.Method,
				r.URL.Path,
				wrapped.StatusCode(),
				time.Since(start).Milliseconds(),
			)
		})
	}
}
