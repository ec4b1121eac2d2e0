package storage

import (
	"context"

	"github.com/chris/fair-wallet/pkg/models"
)

// TransactionReader defines the interface for reading the transaction log.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// ListTransactions retrieves the most recent transactions, newest first. A limit <= 0 means no limit.
	ListTransactions(ctx context.Context, limit int32) ([]models.Transaction, error)

	// ListTransactionsByStudent retrieves a student's purchases, newest first.
	ListTransactionsByStudent(ctx context.Context, studentID string) ([]models.Transaction, error)

	// ListTransactionsByStall retrieves a stall's sales, newest first.
	ListTransactionsByStall(ctx context.Context, stallID string) ([]models.Transaction, error)
}

// PurchaseStore is the privileged interface that runs one attempt of the purchase atomic unit.
// It must only be used by the ledger engine.
type PurchaseStore interface {
	// CommitPurchase re-reads the student and stall, verifies the student can afford the
	// intent, and commits the balance decrement together with the transaction record.
	// Either both writes happen or neither does. A lost optimistic race returns ErrConflict.
	CommitPurchase(ctx context.Context, intent *models.PurchaseIntent) (*models.Transaction, error)
}

// RechargeStore applies balance top-ups.
type RechargeStore interface {
	// ApplyRecharge atomically increments the student's balance and records the recharge.
	// It returns ErrDuplicateRecharge if the recharge id was already applied.
	ApplyRecharge(ctx context.Context, recharge *models.Recharge) error

	// ListRechargesByStudent retrieves every recharge applied to a student.
	ListRechargesByStudent(ctx context.Context, studentID string) ([]models.Recharge, error)
}
