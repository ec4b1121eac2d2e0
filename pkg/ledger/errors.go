package ledger

import (
	"errors"
	"fmt"

	"github.com/chris/fair-wallet/pkg/money"
	"github.com/chris/fair-wallet/pkg/storage"
)

var (
	// ErrInvalidQuantity is returned when a purchase quantity is below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrInvalidAmount is returned for a non-positive price or recharge amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidRequest is returned when a required identifier is missing.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTransactionConflict is returned when the retry budget ran out while
	// competing writers kept changing the student's balance.
	ErrTransactionConflict = errors.New("transaction conflict: retry budget exhausted")
)

// Store-level failures surfaced unchanged by the engine.
var (
	ErrInsufficientFunds = storage.ErrInsufficientFunds
	ErrAccountVanished   = storage.ErrAccountVanished
	ErrNotAStudent       = storage.ErrNotAStudent
	ErrNotAStall         = storage.ErrNotAStall
)

// PurchaseError describes a failed purchase. It unwraps to the cause so callers
// can keep using errors.Is with the sentinels above.
type PurchaseError struct {
	StudentID string
	StallID   string
	ProductID string
	Total     money.Amount
	Attempts  int
	Err       error
}

func (e *PurchaseError) Error() string {
	return fmt.Sprintf("purchase of %s by %s at %s failed after %d attempt(s): %v",
		e.Total, e.StudentID, e.StallID, e.Attempts, e.Err)
}

func (e *PurchaseError) Unwrap() error {
	return e.Err
}

// IsDecline reports whether err is a business refusal rather than an infrastructure failure.
func IsDecline(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrAccountVanished) ||
		errors.Is(err, ErrNotAStudent) ||
		errors.Is(err, ErrNotAStall)
}
