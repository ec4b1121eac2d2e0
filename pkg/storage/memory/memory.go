// Package memory provides an in-memory Storage implementation for tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/storage"
)

// Store keeps every table in maps behind one RWMutex.
//
// CommitPurchase follows the same optimistic protocol as the DynamoDB store: the
// student is read under the read lock, and the write is applied under the write
// lock only if the version is unchanged. Concurrent purchases therefore observe
// ErrConflict exactly where DynamoDB would cancel the transaction.
type Store struct {
	mu sync.RWMutex

	accounts map[string]models.Account

	products     map[string]models.Product
	productOrder []string

	transactions map[string]models.Transaction
	txOrder      []string

	recharges     map[string]models.Recharge
	rechargeOrder []string

	// Now is the store clock. Defaults to time.Now.
	Now  func() time.Time
	last time.Time

	// afterRead runs between the read and the write of CommitPurchase. Tests use it
	// to interleave a competing writer.
	afterRead func()
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts:     make(map[string]models.Account),
		products:     make(map[string]models.Product),
		transactions: make(map[string]models.Transaction),
		recharges:    make(map[string]models.Recharge),
	}
}

var _ storage.Storage = (*Store)(nil)

// commitTimeLocked must be called with mu held for writing.
func (s *Store) commitTimeLocked() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t := now().UTC()
	if t.Before(s.last) {
		t = s.last
	}
	s.last = t
	return t
}

func cloneAccount(a models.Account) *models.Account {
	if a.Balance != nil {
		b := *a.Balance
		a.Balance = &b
	}
	if a.OpeningBalance != nil {
		b := *a.OpeningBalance
		a.OpeningBalance = &b
	}
	return &a
}

// CreateAccount stores a new account.
func (s *Store) CreateAccount(_ context.Context, account *models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; ok {
		return nil, fmt.Errorf("account %s: %w", account.ID, storage.ErrAlreadyExists)
	}
	s.accounts[account.ID] = *cloneAccount(*account)
	return account, nil
}

// GetAccount returns a copy of the account.
func (s *Store) GetAccount(_ context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, storage.ErrNotFound)
	}
	return cloneAccount(a), nil
}

// ListAccountsByRole returns every account with the given role.
func (s *Store) ListAccountsByRole(_ context.Context, role models.Role) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Account
	for _, a := range s.accounts {
		if a.Role == role {
			out = append(out, *cloneAccount(a))
		}
	}
	return out, nil
}

// ListAccounts returns every account.
func (s *Store) ListAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *cloneAccount(a))
	}
	return out, nil
}

// CreateProduct stores a product whose stall must exist.
func (s *Store) CreateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stall, ok := s.accounts[product.StallID]
	if !ok || !stall.IsStall() {
		return nil, fmt.Errorf("stall %s: %w", product.StallID, storage.ErrNotAStall)
	}
	if _, ok := s.products[product.ID]; ok {
		return nil, fmt.Errorf("product %s: %w", product.ID, storage.ErrAlreadyExists)
	}
	s.products[product.ID] = *product
	s.productOrder = append(s.productOrder, product.ID)
	return product, nil
}

// GetProduct returns a product by id.
func (s *Store) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, storage.ErrNotFound)
	}
	return &p, nil
}

// ListProductsByStall returns a stall's products in creation order.
func (s *Store) ListProductsByStall(_ context.Context, stallID string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Product
	for _, id := range s.productOrder {
		if p := s.products[id]; p.StallID == stallID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListProducts returns the whole catalog in creation order.
func (s *Store) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		out = append(out, s.products[id])
	}
	return out, nil
}
