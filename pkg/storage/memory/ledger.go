package memory

import (
	"context"
	"fmt"

	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/storage"
)

// CommitPurchase runs one attempt of the purchase atomic unit.
func (s *Store) CommitPurchase(_ context.Context, intent *models.PurchaseIntent) (*models.Transaction, error) {
	s.mu.RLock()
	student, ok := s.accounts[intent.StudentID]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("student %s: %w", intent.StudentID, storage.ErrAccountVanished)
	}
	stall, stallOK := s.accounts[intent.StallID]
	s.mu.RUnlock()

	if !student.IsStudent() {
		return nil, fmt.Errorf("account %s: %w", student.ID, storage.ErrNotAStudent)
	}
	if !stallOK || !stall.IsStall() {
		return nil, fmt.Errorf("stall %s: %w", intent.StallID, storage.ErrNotAStall)
	}

	newBalance := student.CurrentBalance().Sub(intent.TotalAmount)
	if newBalance.IsNegative() {
		return nil, storage.ErrInsufficientFunds
	}

	if s.afterRead != nil {
		s.afterRead()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.transactions[intent.TransactionID]; ok {
		return &existing, nil
	}

	current, ok := s.accounts[student.ID]
	if !ok || current.Version != student.Version || !current.IsStudent() {
		return nil, fmt.Errorf("student %s: %w", student.ID, storage.ErrConflict)
	}
	if st, ok := s.accounts[stall.ID]; !ok || !st.IsStall() {
		return nil, fmt.Errorf("stall %s: %w", stall.ID, storage.ErrNotAStall)
	}

	now := s.commitTimeLocked()
	tx := models.Transaction{
		ID:          intent.TransactionID,
		StudentID:   student.ID,
		StudentName: student.Name,
		StallID:     stall.ID,
		StallName:   stall.Name,
		ProductID:   intent.ProductID,
		ProductName: intent.ProductName,
		Quantity:    intent.Quantity,
		TotalAmount: intent.TotalAmount,
		Timestamp:   now,
		Seq:         now.UnixNano(),
		GSI1PK:      models.TransactionLogPK,
	}

	current.Balance = &newBalance
	current.Version++
	s.accounts[current.ID] = current
	s.transactions[tx.ID] = tx
	s.txOrder = append(s.txOrder, tx.ID)

	return &tx, nil
}

// ApplyRecharge increments the student's balance and records the recharge.
func (s *Store) ApplyRecharge(_ context.Context, recharge *models.Recharge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[recharge.StudentID]
	if !ok {
		return fmt.Errorf("student %s: %w", recharge.StudentID, storage.ErrAccountVanished)
	}
	if !account.IsStudent() {
		return fmt.Errorf("account %s: %w", account.ID, storage.ErrNotAStudent)
	}
	if _, ok := s.recharges[recharge.ID]; ok {
		return fmt.Errorf("recharge %s: %w", recharge.ID, storage.ErrDuplicateRecharge)
	}

	recharge.Timestamp = s.commitTimeLocked()

	balance := account.CurrentBalance().Add(recharge.Amount)
	account.Balance = &balance
	account.Version++
	s.accounts[account.ID] = account
	s.recharges[recharge.ID] = *recharge
	s.rechargeOrder = append(s.rechargeOrder, recharge.ID)
	return nil
}

// ListRechargesByStudent returns a student's recharges in commit order.
func (s *Store) ListRechargesByStudent(_ context.Context, studentID string) ([]models.Recharge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Recharge
	for _, id := range s.rechargeOrder {
		if r := s.recharges[id]; r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetTransaction returns a transaction by id.
func (s *Store) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	return &tx, nil
}

// ListTransactions returns the newest transactions first.
func (s *Store) ListTransactions(_ context.Context, limit int32) ([]models.Transaction, error) {
	return s.newestFirst(func(models.Transaction) bool { return true }, int(limit)), nil
}

// ListTransactionsByStudent returns a student's purchases, newest first.
func (s *Store) ListTransactionsByStudent(_ context.Context, studentID string) ([]models.Transaction, error) {
	return s.newestFirst(func(tx models.Transaction) bool { return tx.StudentID == studentID }, 0), nil
}

// ListTransactionsByStall returns a stall's sales, newest first.
func (s *Store) ListTransactionsByStall(_ context.Context, stallID string) ([]models.Transaction, error) {
	return s.newestFirst(func(tx models.Transaction) bool { return tx.StallID == stallID }, 0), nil
}

// newestFirst walks the log backwards. Commit times never decrease, so commit
// order reversed is newest first.
func (s *Store) newestFirst(keep func(models.Transaction) bool, limit int) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for i := len(s.txOrder) - 1; i >= 0; i-- {
		tx := s.transactions[s.txOrder[i]]
		if !keep(tx) {
			continue
		}
		out = append(out, tx)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
