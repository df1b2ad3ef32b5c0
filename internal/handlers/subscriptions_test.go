package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailcrate/mailcrate/internal/logging"
)

func TestOutcomeStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, OutcomeRejected.Status())
	assert.Equal(t, http.StatusOK, OutcomePersisted.Status())
	assert.Equal(t, http.StatusInternalServerError, OutcomeFailed.Status())
}

func postForm(handler *SubscriptionHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/subscription", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.Subscribe(rec, req)
	return rec
}

// Extraction failures must short-circuit before any persistence. The
// handler is built with a nil pool here: if any rejected request reached
// the gateway these tests would panic instead of returning 400.
func TestSubscribeRejectsMalformedFormsBeforePersistence(t *testing.T) {
	handler := NewSubscriptionHandler(logging.New("test", logging.LevelError, io.Discard), nil)

	tests := []struct {
		body   string
		reason string
	}{
		{"name=le%20guin", "missing the email"},
		{"email=ursula_le_guin%40gmail.com", "missing the name"},
		{"", "missing both name and email"},
		{"email=&name=le%20guin", "empty email"},
		{"email=ursula_le_guin%40gmail.com&name=", "empty name"},
		{"email=%zz&name=x", "malformed urlencoding"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			rec := postForm(handler, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, rec.Body.Len())
		})
	}
}

func TestSubscribeRejectsWrongContentType(t *testing.T) {
	handler := NewSubscriptionHandler(logging.New("test", logging.LevelError, io.Discard), nil)

	req := httptest.NewRequest("POST", "/subscription",
		strings.NewReader(`{"email":"a@b.c","name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.Subscribe(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractFormDecodesURLEncoding(t *testing.T) {
	req := httptest.NewRequest("POST", "/subscription",
		strings.NewReader("name=le%20guin&email=ursula_le_guin%40gmail.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	form, err := extractForm(req)
	assert.NoError(t, err)
	assert.Equal(t, "ursula_le_guin@gmail.com", form.Email)
	assert.Equal(t, "le guin", form.Name)
}
