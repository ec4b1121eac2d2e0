// Package provisioning creates students, stalls and products for the admin panel.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/fair-wallet/pkg/identity"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/chris/fair-wallet/pkg/storage"
	"github.com/google/uuid"
)

var (
	// ErrInvalidName is returned for an empty name.
	ErrInvalidName = errors.New("name must not be empty")

	// ErrInvalidBalance is returned for a negative initial balance.
	ErrInvalidBalance = errors.New("initial balance must not be negative")

	// ErrInvalidPrice is returned for a price that is not greater than zero.
	ErrInvalidPrice = errors.New("price must be greater than zero")
)

// Provisioned is a created account plus what the QR collaborator needs to render it.
type Provisioned struct {
	Account      *models.Account       `json:"account"`
	Presentation identity.Presentation `json:"presentation"`
}

// Store is what provisioning needs from the storage layer.
type Store interface {
	storage.AccountStore
	storage.ProductStore
}

// Service creates identities and catalog entries.
type Service struct {
	store     Store
	presenter *identity.Presenter
	now       func() time.Time
	newID     func() string
}

// NewService creates a Service.
func NewService(store Store, presenter *identity.Presenter) *Service {
	return &Service{
		store:     store,
		presenter: presenter,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// CreateStudent provisions a student with a starting balance.
func (s *Service) CreateStudent(ctx context.Context, name string, initialBalance money.Amount) (*Provisioned, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if initialBalance.IsNegative() {
		return nil, ErrInvalidBalance
	}

	balance, opening := initialBalance, initialBalance
	account := &models.Account{
		ID:             s.newID(),
		Name:           name,
		Role:           models.RoleStudent,
		Balance:        &balance,
		OpeningBalance: &opening,
		CreatedAt:      s.now().UTC(),
	}
	return s.createAccount(ctx, account)
}

// CreateStall provisions a stall.
func (s *Service) CreateStall(ctx context.Context, name string) (*Provisioned, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	account := &models.Account{
		ID:        s.newID(),
		Name:      name,
		Role:      models.RoleStall,
		CreatedAt: s.now().UTC(),
	}
	return s.createAccount(ctx, account)
}

func (s *Service) createAccount(ctx context.Context, account *models.Account) (*Provisioned, error) {
	created, err := s.store.CreateAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", account.Role, err)
	}
	slog.Info("account provisioned", "id", created.ID, "role", created.Role)
	return &Provisioned{Account: created, Presentation: s.presenter.Present(created)}, nil
}

// CreateProduct adds a product to a stall's menu.
func (s *Service) CreateProduct(ctx context.Context, stallID, name string, price money.Amount) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	stall, err := s.store.GetAccount(ctx, stallID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("stall %s: %w", stallID, storage.ErrNotAStall)
		}
		return nil, fmt.Errorf("failed to load stall: %w", err)
	}
	if !stall.IsStall() {
		return nil, fmt.Errorf("account %s: %w", stallID, storage.ErrNotAStall)
	}

	product := &models.Product{
		ID:        s.newID(),
		StallID:   stall.ID,
		Name:      name,
		Price:     price,
		CreatedAt: s.now().UTC(),
	}
	created, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	slog.Info("product created", "id", created.ID, "stall_id", created.StallID, "price", created.Price.String())
	return created, nil
}
