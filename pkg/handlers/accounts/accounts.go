package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chris/fair-wallet/pkg/api"
	"github.com/chris/fair-wallet/pkg/handlers/respond"
	"github.com/chris/fair-wallet/pkg/identity"
	"github.com/chris/fair-wallet/pkg/mapping"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/chris/fair-wallet/pkg/provisioning"
	"github.com/chris/fair-wallet/pkg/storage"
)

// Provisioner creates student and stall identities.
type Provisioner interface {
	CreateStudent(ctx context.Context, name string, initialBalance money.Amount) (*provisioning.Provisioned, error)
	CreateStall(ctx context.Context, name string) (*provisioning.Provisioned, error)
}

// AccountsHandler holds the dependencies for identity-related handlers.
type AccountsHandler struct {
	Store       storage.AccountReader
	Provisioner Provisioner
	Presenter   *identity.Presenter
	Resolver    *identity.Resolver
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(store storage.AccountReader, provisioner Provisioner, presenter *identity.Presenter) *AccountsHandler {
	return &AccountsHandler{
		Store:       store,
		Provisioner: provisioner,
		Presenter:   presenter,
		Resolver:    identity.NewResolver(store),
	}
}

// CreateStudent provisions a student with a starting balance.
func (h *AccountsHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var body api.NewStudent
	if !respond.Decode(w, r, &body) {
		return
	}

	balance, err := money.Parse(body.InitialBalance)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid_balance", fmt.Sprintf("Invalid initial balance: %v", err))
		return
	}

	created, err := h.Provisioner.CreateStudent(r.Context(), body.Name, balance)
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiProvisioned(created))
}

// CreateStall provisions a stall.
func (h *AccountsHandler) CreateStall(w http.ResponseWriter, r *http.Request) {
	var body api.NewStall
	if !respond.Decode(w, r, &body) {
		return
	}

	created, err := h.Provisioner.CreateStall(r.Context(), body.Name)
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiProvisioned(created))
}

// ListAccounts returns every account, optionally filtered by role.
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request, params api.ListAccountsParams) {
	var (
		accounts []models.Account
		err      error
	)
	if params.Role != nil {
		role := models.Role(*params.Role)
		if !role.Valid() {
			respond.Error(w, http.StatusBadRequest, "invalid_role", fmt.Sprintf("Unknown role %q", role))
			return
		}
		accounts, err = h.Store.ListAccountsByRole(r.Context(), role)
	} else {
		accounts, err = h.Store.ListAccounts(r.Context())
	}
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiAccounts(accounts))
}

// GetAccount returns one account.
func (h *AccountsHandler) GetAccount(w http.ResponseWriter, r *http.Request, accountId api.AccountId) {
	account, err := h.Store.GetAccount(r.Context(), accountId.String())
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(account))
}

// GetAccountQRCode renders the account's presentation URL as a PNG.
func (h *AccountsHandler) GetAccountQRCode(w http.ResponseWriter, r *http.Request, accountId api.AccountId, params api.GetAccountQRCodeParams) {
	size := identity.DefaultQRSize
	if params.Size != nil {
		if *params.Size < 64 || *params.Size > 1024 {
			respond.Error(w, http.StatusBadRequest, "invalid_size", "size must be between 64 and 1024")
			return
		}
		size = *params.Size
	}

	account, err := h.Store.GetAccount(r.Context(), accountId.String())
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	png, err := identity.QRCodePNG(h.Presenter.Present(account), size)
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		slog.Error("failed to write QR code", "account_id", account.ID, "error", err)
	}
}

// ResolveScan turns a scanned QR payload into the account behind it.
func (h *AccountsHandler) ResolveScan(w http.ResponseWriter, r *http.Request) {
	var body api.ScanRequest
	if !respond.Decode(w, r, &body) {
		return
	}

	var want models.Role
	if body.Role != nil {
		want = models.Role(*body.Role)
		if !want.Valid() {
			respond.Error(w, http.StatusBadRequest, "invalid_role", fmt.Sprintf("Unknown role %q", want))
			return
		}
	}

	account, err := h.Resolver.Resolve(r.Context(), body.Raw, want)
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(account))
}
