package purchases

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/fair-wallet/pkg/api"
	"github.com/chris/fair-wallet/pkg/handlers/respond"
	"github.com/chris/fair-wallet/pkg/identity"
	"github.com/chris/fair-wallet/pkg/ledger"
	"github.com/chris/fair-wallet/pkg/mapping"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/chris/fair-wallet/pkg/storage"
)

// ErrProductNotAtStall is returned when a stall tries to sell another stall's product.
var ErrProductNotAtStall = errors.New("product is not sold by this stall")

// Store is the read side the purchase handlers need.
type Store interface {
	storage.AccountReader
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// PurchasesHandler holds the dependencies for balance-moving handlers.
type PurchasesHandler struct {
	Store    Store
	Ledger   ledger.Service
	Resolver *identity.Resolver
}

// NewPurchasesHandler creates a new PurchasesHandler.
func NewPurchasesHandler(store Store, ledgerService ledger.Service) *PurchasesHandler {
	return &PurchasesHandler{
		Store:    store,
		Ledger:   ledgerService,
		Resolver: identity.NewResolver(store),
	}
}

// CreatePurchase charges a student for a product sold by the stall.
// The product name and price always come from the catalog, never from the request.
func (h *PurchasesHandler) CreatePurchase(w http.ResponseWriter, r *http.Request, stallId api.StallId) {
	var body api.PurchaseRequest
	if !respond.Decode(w, r, &body) {
		return
	}

	studentID, err := h.studentID(r.Context(), body)
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	product, err := h.Store.GetProduct(r.Context(), body.ProductId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "product_not_found", fmt.Sprintf("Product %s not found", body.ProductId))
			return
		}
		respond.Problem(w, r, err)
		return
	}
	if product.StallID != stallId.String() {
		respond.Error(w, http.StatusConflict, "product_not_at_stall", ErrProductNotAtStall.Error())
		return
	}

	tx, err := h.Ledger.Purchase(r.Context(), ledger.PurchaseRequest{
		StudentID:   studentID,
		StallID:     product.StallID,
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    body.Quantity,
	})
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// studentID prefers the scanned payload, resolved against the registry so the
// role comes from the stored record.
func (h *PurchasesHandler) studentID(ctx context.Context, body api.PurchaseRequest) (string, error) {
	if body.Scanned != nil && *body.Scanned != "" {
		account, err := h.Resolver.Resolve(ctx, *body.Scanned, models.RoleStudent)
		if err != nil {
			return "", err
		}
		return account.ID, nil
	}
	if body.StudentId == nil || *body.StudentId == "" {
		return "", fmt.Errorf("%w: studentId or scanned is required", ledger.ErrInvalidRequest)
	}
	return *body.StudentId, nil
}

// CreateRecharge tops up a student's balance and returns the updated account.
func (h *PurchasesHandler) CreateRecharge(w http.ResponseWriter, r *http.Request, studentId api.StudentId) {
	var body api.RechargeRequest
	if !respond.Decode(w, r, &body) {
		return
	}

	amount, err := money.Parse(body.Amount)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid_amount", fmt.Sprintf("Invalid amount: %v", err))
		return
	}

	if body.RechargeId != nil && *body.RechargeId != "" {
		err = h.Ledger.RechargeWithID(r.Context(), *body.RechargeId, studentId.String(), amount)
	} else {
		err = h.Ledger.Recharge(r.Context(), studentId.String(), amount)
	}
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	account, err := h.Store.GetAccount(r.Context(), studentId.String())
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(account))
}
