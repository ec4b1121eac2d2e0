// Package reconcile checks every student balance against the records that produced it.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
)

// Store is the read side reconciliation needs.
type Store interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccountsByRole(ctx context.Context, role models.Role) ([]models.Account, error)
	ListRechargesByStudent(ctx context.Context, studentID string) ([]models.Recharge, error)
	ListTransactionsByStudent(ctx context.Context, studentID string) ([]models.Transaction, error)
}

// Discrepancy is a student whose stored balance differs from
// opening balance + recharges - purchases.
type Discrepancy struct {
	StudentID string       `json:"student_id"`
	Name      string       `json:"name"`
	Expected  money.Amount `json:"expected"`
	Actual    money.Amount `json:"actual"`
}

// Report summarises one reconciliation run.
type Report struct {
	Checked       int           `json:"checked"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}

// Reconciler verifies balances.
type Reconciler struct {
	store Store
}

// New creates a Reconciler.
func New(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Run checks every student. A mismatch is re-checked once before being
// reported, since a purchase may have committed between the reads.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	students, err := r.store.ListAccountsByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	report := &Report{}
	for i := range students {
		student := &students[i]
		d, err := r.check(ctx, student)
		if err != nil {
			return nil, err
		}
		if d != nil {
			fresh, err := r.store.GetAccount(ctx, student.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to re-read student %s: %w", student.ID, err)
			}
			if d, err = r.check(ctx, fresh); err != nil {
				return nil, err
			}
		}
		report.Checked++
		if d != nil {
			slog.Warn("balance discrepancy", "student_id", d.StudentID, "expected", d.Expected.String(), "actual", d.Actual.String())
			report.Discrepancies = append(report.Discrepancies, *d)
		}
	}
	return report, nil
}

func (r *Reconciler) check(ctx context.Context, student *models.Account) (*Discrepancy, error) {
	recharges, err := r.store.ListRechargesByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recharges of %s: %w", student.ID, err)
	}
	txs, err := r.store.ListTransactionsByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions of %s: %w", student.ID, err)
	}

	expected := Expected(student, recharges, txs)
	actual := student.CurrentBalance()
	if expected.Equal(actual) {
		return nil, nil
	}
	return &Discrepancy{StudentID: student.ID, Name: student.Name, Expected: expected, Actual: actual}, nil
}

// Expected is opening balance + recharges - purchases.
func Expected(student *models.Account, recharges []models.Recharge, txs []models.Transaction) money.Amount {
	expected := money.Zero
	if student.OpeningBalance != nil {
		expected = *student.OpeningBalance
	}
	for _, rc := range recharges {
		expected = expected.Add(rc.Amount)
	}
	for _, tx := range txs {
		expected = expected.Sub(tx.TotalAmount)
	}
	return expected
}
