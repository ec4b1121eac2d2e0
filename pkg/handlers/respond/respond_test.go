package respond

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/fair-wallet/pkg/api"
	"github.com/chris/fair-wallet/pkg/identity"
	"github.com/chris/fair-wallet/pkg/ledger"
	"github.com/chris/fair-wallet/pkg/storage"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"InvalidQuantity", ledger.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
		{"InsufficientFundsWrapped", &ledger.PurchaseError{Err: ledger.ErrInsufficientFunds}, http.StatusUnprocessableEntity, "insufficient_funds"},
		{"AccountVanished", fmt.Errorf("student x: %w", storage.ErrAccountVanished), http.StatusNotFound, "account_not_found"},
		{"NotFound", storage.ErrNotFound, http.StatusNotFound, "not_found"},
		{"NotAStall", storage.ErrNotAStall, http.StatusConflict, "not_a_stall"},
		{"WrongRole", identity.ErrWrongRole, http.StatusConflict, "wrong_role"},
		{"Conflict", &ledger.PurchaseError{Err: ledger.ErrTransactionConflict}, http.StatusServiceUnavailable, "transaction_conflict"},
		{"Timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, "timeout"},
		{"ClientCancelledDuringRetry", &ledger.PurchaseError{Err: context.Canceled}, StatusClientClosedRequest, "request_cancelled"},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Status(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestProblem(t *testing.T) {
	t.Run("Conflict Sets Retry-After", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Problem(rr, httptest.NewRequest(http.MethodPost, "/", nil), &ledger.PurchaseError{Err: ledger.ErrTransactionConflict})

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, RetryAfterSeconds, rr.Header().Get("Retry-After"))
		assert.Contains(t, rr.Body.String(), `"code":"transaction_conflict"`)
	})

	t.Run("Internal Errors Hide Details", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Problem(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("dynamodb exploded"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "dynamodb")
	})

	t.Run("Cancelled Requests Are Not Logged As Errors", func(t *testing.T) {
		var logs bytes.Buffer
		previous := slog.Default()
		slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer slog.SetDefault(previous)

		rr := httptest.NewRecorder()
		Problem(rr, httptest.NewRequest(http.MethodPost, "/", nil), fmt.Errorf("waiting to retry: %w", context.Canceled))

		assert.Equal(t, StatusClientClosedRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"code":"request_cancelled"`)
		assert.NotContains(t, logs.String(), `"level":"ERROR"`)
	})
}

func TestDecode(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		var body api.NewStall
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Tacos"}`))

		assert.True(t, Decode(rr, req, &body))
		assert.Equal(t, "Tacos", body.Name)
	})

	t.Run("Malformed", func(t *testing.T) {
		var body api.NewStall
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))

		assert.False(t, Decode(rr, req, &body))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid_body")
	})

	t.Run("Fails Validation", func(t *testing.T) {
		var body api.NewStudent
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana","initialBalance":"lots"}`))

		assert.False(t, Decode(rr, req, &body))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "InitialBalance failed on numeric")
	})
}
