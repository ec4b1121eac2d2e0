package reports

import (
	"net/http"

	"github.com/chris/fair-wallet/pkg/api"
	"github.com/chris/fair-wallet/pkg/handlers/respond"
	"github.com/chris/fair-wallet/pkg/mapping"
	"github.com/chris/fair-wallet/pkg/reporting"
	"github.com/chris/fair-wallet/pkg/storage"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ReportsHandler serves the transaction log and the sales views.
type ReportsHandler struct {
	Store storage.TransactionReader
	// Projection, when set, answers the sales report from the live feed
	// instead of scanning the log.
	Projection *reporting.Projection
}

// NewReportsHandler creates a new ReportsHandler. projection may be nil.
func NewReportsHandler(store storage.TransactionReader, projection *reporting.Projection) *ReportsHandler {
	return &ReportsHandler{Store: store, Projection: projection}
}

// GetSalesReport returns totals per stall.
func (h *ReportsHandler) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	var sales []reporting.StallSales
	if h.Projection != nil {
		sales = h.Projection.Sales()
	} else {
		txs, err := h.Store.ListTransactions(r.Context(), 0)
		if err != nil {
			respond.Problem(w, r, err)
			return
		}
		sales = reporting.SalesByStall(txs)
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiSalesReport(sales))
}

// ListTransactions returns the transaction log, newest first.
func (h *ReportsHandler) ListTransactions(w http.ResponseWriter, r *http.Request, params api.ListTransactionsParams) {
	var limit int32
	if params.Limit != nil {
		if *params.Limit < 1 {
			respond.Error(w, http.StatusBadRequest, "invalid_limit", "limit must be at least 1")
			return
		}
		limit = *params.Limit
	}

	txs, err := h.Store.ListTransactions(r.Context(), limit)
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransactions(reporting.Log(txs)))
}

// GetTransactionById returns one transaction.
func (h *ReportsHandler) GetTransactionById(w http.ResponseWriter, r *http.Request, transactionId openapi_types.UUID) {
	tx, err := h.Store.GetTransaction(r.Context(), transactionId.String())
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// ListStallTransactions returns a stall's sales, newest first.
func (h *ReportsHandler) ListStallTransactions(w http.ResponseWriter, r *http.Request, stallId api.StallId) {
	txs, err := h.Store.ListTransactionsByStall(r.Context(), stallId.String())
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransactions(reporting.StallHistory(txs, stallId.String())))
}

// ListStudentTransactions returns a student's purchases, newest first.
func (h *ReportsHandler) ListStudentTransactions(w http.ResponseWriter, r *http.Request, studentId api.StudentId) {
	txs, err := h.Store.ListTransactionsByStudent(r.Context(), studentId.String())
	if err != nil {
		respond.Problem(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransactions(reporting.StudentHistory(txs, studentId.String())))
}

