package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error classes used as structured log fields. Clients never see these;
// the pipeline maps every persistence failure to a bare 500.
const (
	ErrorClassConstraint = "constraint_violation"
	ErrorClassTimeout    = "timeout"
	ErrorClassFailure    = "failure"
)

// ClassifyError buckets a persistence error for logging. The underlying
// error is not altered; this only derives a coarse category.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		// Class 23: integrity constraint violations.
		return ErrorClassConstraint
	}
	return ErrorClassFailure
}
