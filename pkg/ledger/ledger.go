// Package ledger moves money between student balances and the transaction log.
//
// Every balance change goes through an Engine. A purchase is one atomic unit in
// the store: the student's balance is re-read, checked, and written back together
// with the new Transaction record, conditioned on nobody having changed the
// balance in between. The engine retries units that lose that race.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/fair-wallet/pkg/feed"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/chris/fair-wallet/pkg/notify"
	"github.com/chris/fair-wallet/pkg/storage"
	"github.com/google/uuid"
)

// Service is the ledger surface used by handlers and lambdas.
type Service interface {
	Purchase(ctx context.Context, req PurchaseRequest) (*models.Transaction, error)
	Recharge(ctx context.Context, studentID string, amount money.Amount) error
	RechargeWithID(ctx context.Context, rechargeID, studentID string, amount money.Amount) error
}

// Store is what the engine needs from the storage layer.
type Store interface {
	storage.PurchaseStore
	storage.RechargeStore
}

// PurchaseRequest asks for quantity units of a product to be paid from a
// student's balance. It carries no balance: the store reads the current one.
type PurchaseRequest struct {
	StudentID   string
	StallID     string
	ProductID   string
	ProductName string
	UnitPrice   money.Amount
	Quantity    int64
}

// Total is UnitPrice times Quantity.
func (r PurchaseRequest) Total() money.Amount {
	return r.UnitPrice.MulInt(r.Quantity)
}

func (r PurchaseRequest) validate() error {
	if r.StudentID == "" || r.StallID == "" || r.ProductID == "" {
		return fmt.Errorf("%w: student, stall and product ids are required", ErrInvalidRequest)
	}
	if r.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if !r.UnitPrice.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Engine implements Service.
type Engine struct {
	store     Store
	publisher feed.Publisher
	notifier  notify.Notifier
	policy    RetryPolicy
	newID     func() string
}

// NewEngine creates an Engine. A nil publisher or notifier disables that hook.
func NewEngine(store Store, publisher feed.Publisher, notifier notify.Notifier, policy RetryPolicy) *Engine {
	if publisher == nil {
		publisher = &feed.NoOpPublisher{}
	}
	if notifier == nil {
		notifier = notify.NoOp{}
	}
	return &Engine{
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		policy:    policy.withDefaults(),
		newID:     func() string { return uuid.New().String() },
	}
}

// Make sure we conform to the interface
var _ Service = (*Engine)(nil)

// Purchase debits the student and records the transaction atomically.
func (e *Engine) Purchase(ctx context.Context, req PurchaseRequest) (*models.Transaction, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// The id is fixed across attempts so a commit whose response was lost is
	// found again instead of being applied twice.
	intent := &models.PurchaseIntent{
		TransactionID: e.newID(),
		StudentID:     req.StudentID,
		StallID:       req.StallID,
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		Quantity:      req.Quantity,
		TotalAmount:   req.Total(),
	}

	fail := func(attempts int, err error) error {
		return &PurchaseError{
			StudentID: req.StudentID,
			StallID:   req.StallID,
			ProductID: req.ProductID,
			Total:     intent.TotalAmount,
			Attempts:  attempts,
			Err:       err,
		}
	}

	for attempt := 1; ; attempt++ {
		tx, err := e.store.CommitPurchase(ctx, intent)
		if err == nil {
			slog.Info("purchase committed",
				"transaction_id", tx.ID, "student_id", tx.StudentID, "stall_id", tx.StallID,
				"total", tx.TotalAmount.String(), "attempts", attempt)
			e.afterCommit(ctx, tx)
			return tx, nil
		}

		if !errors.Is(err, storage.ErrConflict) {
			if IsDecline(err) {
				slog.Warn("purchase declined", "student_id", req.StudentID, "stall_id", req.StallID,
					"total", intent.TotalAmount.String(), "reason", err)
			}
			return nil, fail(attempt, err)
		}

		if attempt >= e.policy.MaxAttempts {
			slog.Warn("purchase retry budget exhausted", "student_id", req.StudentID, "attempts", attempt)
			return nil, fail(attempt, ErrTransactionConflict)
		}

		slog.Debug("purchase conflicted, retrying", "student_id", req.StudentID, "attempt", attempt)
		if err := e.policy.wait(ctx, attempt); err != nil {
			return nil, fail(attempt, err)
		}
	}
}

// afterCommit runs the best-effort hooks. Their failures never undo a purchase.
func (e *Engine) afterCommit(ctx context.Context, tx *models.Transaction) {
	if err := e.publisher.Publish(ctx, feed.TransactionCommitted(tx)); err != nil {
		slog.Error("failed to publish transaction event", "transaction_id", tx.ID, "error", err)
	}
	if err := e.notifier.TransactionCommitted(ctx, tx); err != nil {
		slog.Error("failed to send receipt", "transaction_id", tx.ID, "error", err)
	}
}

// Recharge adds amount to the student's balance under a fresh recharge id.
func (e *Engine) Recharge(ctx context.Context, studentID string, amount money.Amount) error {
	return e.RechargeWithID(ctx, e.newID(), studentID, amount)
}

// RechargeWithID adds amount to the student's balance. Applying the same
// rechargeID twice is a successful no-op.
func (e *Engine) RechargeWithID(ctx context.Context, rechargeID, studentID string, amount money.Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if studentID == "" || rechargeID == "" {
		return fmt.Errorf("%w: student and recharge ids are required", ErrInvalidRequest)
	}

	for attempt := 1; ; attempt++ {
		recharge := &models.Recharge{ID: rechargeID, StudentID: studentID, Amount: amount}
		err := e.store.ApplyRecharge(ctx, recharge)
		switch {
		case err == nil:
			slog.Info("recharge applied", "recharge_id", rechargeID, "student_id", studentID, "amount", amount.String())
			if err := e.publisher.Publish(ctx, feed.RechargeApplied(recharge)); err != nil {
				slog.Error("failed to publish recharge event", "recharge_id", rechargeID, "error", err)
			}
			return nil
		case errors.Is(err, storage.ErrDuplicateRecharge):
			slog.Info("recharge already applied", "recharge_id", rechargeID, "student_id", studentID)
			return nil
		case !errors.Is(err, storage.ErrConflict):
			return fmt.Errorf("recharge %s for %s: %w", rechargeID, studentID, err)
		case attempt >= e.policy.MaxAttempts:
			return fmt.Errorf("recharge %s for %s: %w", rechargeID, studentID, ErrTransactionConflict)
		}

		if err := e.policy.wait(ctx, attempt); err != nil {
			return fmt.Errorf("recharge %s for %s: %w", rechargeID, studentID, err)
		}
	}
}
