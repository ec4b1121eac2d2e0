// Package respond writes JSON responses and maps domain errors to HTTP statuses.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chris/fair-wallet/pkg/api"
	"github.com/chris/fair-wallet/pkg/identity"
	"github.com/chris/fair-wallet/pkg/ledger"
	"github.com/chris/fair-wallet/pkg/provisioning"
	"github.com/chris/fair-wallet/pkg/storage"
	"github.com/go-playground/validator/v10"
)

// RetryAfterSeconds is sent with 503 responses for exhausted purchase retries.
const RetryAfterSeconds = "1"

// StatusClientClosedRequest is written when the client went away before the
// request finished. The client never reads it; it shows up in request logs.
const StatusClientClosedRequest = 499

var validate = validator.New(validator.WithRequiredStructEnabled())

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error writes an api.Error body.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, api.Error{Code: code, Message: message})
}

// Decode reads a JSON body into v and validates it. On failure it writes a 400 and returns false.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid_body", fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	if err := validate.Struct(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", describe(err))
		return false
	}
	return true
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, ", ")
}

type mapping struct {
	err    error
	status int
	code   string
}

// Order matters: the first match wins.
var mappings = []mapping{
	{ledger.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{ledger.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{ledger.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{provisioning.ErrInvalidName, http.StatusBadRequest, "invalid_name"},
	{provisioning.ErrInvalidBalance, http.StatusBadRequest, "invalid_balance"},
	{provisioning.ErrInvalidPrice, http.StatusBadRequest, "invalid_price"},
	{identity.ErrInvalidIdentifier, http.StatusBadRequest, "invalid_identifier"},
	{ledger.ErrInsufficientFunds, http.StatusUnprocessableEntity, "insufficient_funds"},
	{ledger.ErrAccountVanished, http.StatusNotFound, "account_not_found"},
	{storage.ErrNotFound, http.StatusNotFound, "not_found"},
	{ledger.ErrNotAStudent, http.StatusConflict, "not_a_student"},
	{ledger.ErrNotAStall, http.StatusConflict, "not_a_stall"},
	{identity.ErrWrongRole, http.StatusConflict, "wrong_role"},
	{storage.ErrAlreadyExists, http.StatusConflict, "already_exists"},
	{ledger.ErrTransactionConflict, http.StatusServiceUnavailable, "transaction_conflict"},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, "timeout"},
	{context.Canceled, StatusClientClosedRequest, "request_cancelled"},
}

// Status returns the HTTP status and error code for err.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// Problem writes err as an api.Error with the mapped status.
// Internal errors are logged and their details withheld from the client.
func Problem(w http.ResponseWriter, r *http.Request, err error) {
	status, code := Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal error"
	}
	if code == "transaction_conflict" {
		w.Header().Set("Retry-After", RetryAfterSeconds)
	}
	Error(w, status, code, message)
}
