package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chris/fair-wallet/pkg/api"
	"github.com/chris/fair-wallet/pkg/handlers/respond"
	"github.com/chris/fair-wallet/pkg/mapping"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/chris/fair-wallet/pkg/reporting"
	"github.com/chris/fair-wallet/pkg/storage"
)

// ProductCreator adds products to a stall's menu.
type ProductCreator interface {
	CreateProduct(ctx context.Context, stallID, name string, price money.Amount) (*models.Product, error)
}

// Store is the read side the catalog handlers need.
type Store interface {
	storage.AccountReader
	ListProductsByStall(ctx context.Context, stallID string) ([]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// CatalogHandler holds the dependencies for product handlers.
type CatalogHandler struct {
	Store    Store
	Products ProductCreator
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(store Store, products ProductCreator) *CatalogHandler {
	return &CatalogHandler{Store: store, Products: products}
}

// CreateProduct adds a product to the stall's menu.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request, stallId api.StallId) {
	var body api.NewProduct
	if !respond.Decode(w, r, &body) {
		return
	}

	price, err := money.Parse(body.Price)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid_price", fmt.Sprintf("Invalid price: %v", err))
		return
	}

	product, err := h.Products.CreateProduct(r.Context(), stallId.String(), body.Name, price)
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiProduct(product))
}

// ListStallProducts returns one stall's menu.
func (h *CatalogHandler) ListStallProducts(w http.ResponseWriter, r *http.Request, stallId api.StallId) {
	products, err := h.Store.ListProductsByStall(r.Context(), stallId.String())
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiProducts(products))
}

// ListMenus returns every stall with its products.
func (h *CatalogHandler) ListMenus(w http.ResponseWriter, r *http.Request) {
	stalls, err := h.Store.ListAccountsByRole(r.Context(), models.RoleStall)
	if err != nil {
		respond.Problem(w, r, err)
		return
	}
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiMenus(reporting.Menus(stalls, products)))
}
