package handlers

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mailcrate/mailcrate/internal/database"
	"github.com/mailcrate/mailcrate/internal/logging"
	"github.com/mailcrate/mailcrate/internal/middleware"
	"github.com/mailcrate/mailcrate/internal/validation"
)

// Outcome is the closed set of results a subscription request can have.
// Keeping the status mapping in one place makes the decision table testable
// without the transport layer.
type Outcome int

const (
	// OutcomeRejected: extraction or validation failed; persistence was
	// never attempted.
	OutcomeRejected Outcome = iota
	// OutcomePersisted: the subscriber row was written.
	OutcomePersisted
	// OutcomeFailed: the persistence attempt failed.
	OutcomeFailed
)

// Status maps an outcome to its HTTP status code. Bodies are always empty;
// failures never leak details to the client.
func (o Outcome) Status() int {
	switch o {
	case OutcomePersisted:
		return http.StatusOK
	case OutcomeFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// subscribeForm is the validated form payload of POST /subscription.
type subscribeForm struct {
	Email string
	Name  string
}

// SubscriptionHandler handles POST /subscription.
type SubscriptionHandler struct {
	pool   *pgxpool.Pool
	logger *logging.Logger
}

// NewSubscriptionHandler wires the handler to the shared pool and logger.
func NewSubscriptionHandler(logger *logging.Logger, pool *pgxpool.Pool) *SubscriptionHandler {
	return &SubscriptionHandler{pool: pool, logger: logger}
}

// Subscribe runs the request pipeline: extract and validate the form,
// then persist. Extraction failure short-circuits to 400 before any
// persistence; a gateway failure maps to 500 with the error logged, never
// surfaced.
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	form, err := extractForm(r)
	if err != nil {
		w.WriteHeader(OutcomeRejected.Status())
		return
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	logger := h.logger.
		WithRequestID(requestID).
		WithSubscription(form.Email, form.Name)
	logger.Info("saving new subscriber")

	sub := database.NewSubscriber(form.Email, form.Name)
	if err := database.InsertSubscriber(r.Context(), h.pool, sub); err != nil {
		logger.WithError(err).Error("failed to persist subscriber",
			logging.FieldOperation, "insert_subscriber",
			"error_class", database.ClassifyError(err),
		)
		w.WriteHeader(OutcomeFailed.Status())
		return
	}

	logger.Info("subscriber persisted", "subscriber_id", sub.ID.String())
	w.WriteHeader(OutcomePersisted.Status())
}

// extractForm parses and validates the urlencoded body. Any failure here
// means the handler logic and the persistence layer are never reached.
func extractForm(r *http.Request) (subscribeForm, error) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/x-www-form-urlencoded" {
			return subscribeForm{}, fmt.Errorf("unsupported content type %q", ct)
		}
	}
	if err := r.ParseForm(); err != nil {
		return subscribeForm{}, fmt.Errorf("parse form: %w", err)
	}

	form := subscribeForm{
		Email: r.PostForm.Get("email"),
		Name:  r.PostForm.Get("name"),
	}
	if err := validation.SubscriberEmail(form.Email); err != nil {
		return subscribeForm{}, err
	}
	if err := validation.SubscriberName(form.Name); err != nil {
		return subscribeForm{}, err
	}
	return form, nil
}
