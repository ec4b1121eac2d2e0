package storage

import (
	"context"

	"github.com/chris/fair-wallet/pkg/models"
)

// AccountReader reads accounts from the identity registry.
type AccountReader interface {
	// GetAccount retrieves an account by id with a strongly consistent read.
	GetAccount(ctx context.Context, id string) (*models.Account, error)

	// ListAccountsByRole retrieves all accounts with the given role.
	ListAccountsByRole(ctx context.Context, role models.Role) ([]models.Account, error)

	// ListAccounts retrieves every account.
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// AccountStore defines the interface for managing accounts.
type AccountStore interface {
	AccountReader

	// CreateAccount stores a new account. It fails with ErrAlreadyExists if the id is taken.
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
}

// ProductStore defines the interface for the stall catalog.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProductsByStall(ctx context.Context, stallID string) ([]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}
