package handlers

import (
	"github.com/chris/fair-wallet/pkg/api"
	"github.com/chris/fair-wallet/pkg/handlers/accounts"
	"github.com/chris/fair-wallet/pkg/handlers/catalog"
	"github.com/chris/fair-wallet/pkg/handlers/purchases"
	"github.com/chris/fair-wallet/pkg/handlers/reports"
	"github.com/chris/fair-wallet/pkg/identity"
	"github.com/chris/fair-wallet/pkg/ledger"
	"github.com/chris/fair-wallet/pkg/provisioning"
	"github.com/chris/fair-wallet/pkg/reporting"
	"github.com/chris/fair-wallet/pkg/storage"
)

// ApiHandler implements the generated server interface by composing
// the feature handlers.
type ApiHandler struct {
	*accounts.AccountsHandler
	*catalog.CatalogHandler
	*purchases.PurchasesHandler
	*reports.ReportsHandler
}

// NewApiHandler wires every feature handler to its dependencies.
// projection may be nil, in which case reports are computed from the store.
func NewApiHandler(store storage.ApiStore, ledgerService ledger.Service, provisioner *provisioning.Service, presenter *identity.Presenter, projection *reporting.Projection) *ApiHandler {
	return &ApiHandler{
		AccountsHandler:  accounts.NewAccountsHandler(store, provisioner, presenter),
		CatalogHandler:   catalog.NewCatalogHandler(store, provisioner),
		PurchasesHandler: purchases.NewPurchasesHandler(store, ledgerService),
		ReportsHandler:   reports.NewReportsHandler(store, projection),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
