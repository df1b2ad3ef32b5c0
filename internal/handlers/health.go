// Package handlers implements the HTTP route handlers for the mailcrate
// service.
package handlers

import "net/http"

// HealthCheck is the liveness probe: always 200 with an empty body, no
// extraction, no side effects.
func HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
