package purchases

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/fair-wallet/pkg/api"
	"github.com/chris/fair-wallet/pkg/handlers/respond"
	"github.com/chris/fair-wallet/pkg/ledger"
	ledger_mocks "github.com/chris/fair-wallet/pkg/ledger/mocks"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/chris/fair-wallet/pkg/storage/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *memory.Store
	studentID string
	stallID   uuid.UUID
	otherID   uuid.UUID
	productID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		store:     memory.New(),
		studentID: uuid.NewString(),
		stallID:   uuid.New(),
		otherID:   uuid.New(),
		productID: uuid.NewString(),
	}

	balance := money.MustParse("50.00")
	_, err := f.store.CreateAccount(ctx, &models.Account{ID: f.studentID, Name: "Ana", Role: models.RoleStudent, Balance: &balance, OpeningBalance: &balance})
	require.NoError(t, err)
	_, err = f.store.CreateAccount(ctx, &models.Account{ID: f.stallID.String(), Name: "Tacos", Role: models.RoleStall})
	require.NoError(t, err)
	_, err = f.store.CreateAccount(ctx, &models.Account{ID: f.otherID.String(), Name: "Churros", Role: models.RoleStall})
	require.NoError(t, err)
	_, err = f.store.CreateProduct(ctx, &models.Product{ID: f.productID, StallID: f.stallID.String(), Name: "Taco", Price: money.MustParse("2.50")})
	require.NoError(t, err)
	return f
}

func postPurchase(h *PurchasesHandler, stallID uuid.UUID, body api.PurchaseRequest) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/stalls/"+stallID.String()+"/purchases", bytes.NewReader(b))
	rr := httptest.NewRecorder()
	h.CreatePurchase(rr, req, stallID)
	return rr
}

func TestCreatePurchase(t *testing.T) {
	t.Run("Uses Catalog Price And Name", func(t *testing.T) {
		f := newFixture(t)
		mockLedger := ledger_mocks.NewService(t)
		committed := &models.Transaction{ID: "tx-1", StudentID: f.studentID, StallID: f.stallID.String(), ProductName: "Taco", Quantity: 3, TotalAmount: money.MustParse("7.50"), Timestamp: time.Now()}
		mockLedger.On("Purchase", mock.Anything, mock.MatchedBy(func(req ledger.PurchaseRequest) bool {
			return req.StudentID == f.studentID &&
				req.StallID == f.stallID.String() &&
				req.ProductName == "Taco" &&
				req.UnitPrice.Equal(money.MustParse("2.50")) &&
				req.Quantity == 3
		})).Return(committed, nil)

		h := NewPurchasesHandler(f.store, mockLedger)
		rr := postPurchase(h, f.stallID, api.PurchaseRequest{StudentId: &f.studentID, ProductId: f.productID, Quantity: 3})

		assert.Equal(t, http.StatusCreated, rr.Code)
		var tx api.Transaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tx))
		assert.Equal(t, "7.50", tx.TotalAmount)
	})

	t.Run("Retry Budget Exhausted", func(t *testing.T) {
		f := newFixture(t)
		mockLedger := ledger_mocks.NewService(t)
		mockLedger.On("Purchase", mock.Anything, mock.Anything).
			Return(nil, &ledger.PurchaseError{Attempts: 5, Err: ledger.ErrTransactionConflict})

		h := NewPurchasesHandler(f.store, mockLedger)
		rr := postPurchase(h, f.stallID, api.PurchaseRequest{StudentId: &f.studentID, ProductId: f.productID, Quantity: 1})

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, respond.RetryAfterSeconds, rr.Header().Get("Retry-After"))
		assert.Contains(t, rr.Body.String(), "transaction_conflict")
	})

	t.Run("Product Of Another Stall", func(t *testing.T) {
		f := newFixture(t)
		mockLedger := ledger_mocks.NewService(t)

		h := NewPurchasesHandler(f.store, mockLedger)
		rr := postPurchase(h, f.otherID, api.PurchaseRequest{StudentId: &f.studentID, ProductId: f.productID, Quantity: 1})

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "product_not_at_stall")
		mockLedger.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
	})

	t.Run("Unknown Product", func(t *testing.T) {
		f := newFixture(t)
		mockLedger := ledger_mocks.NewService(t)

		h := NewPurchasesHandler(f.store, mockLedger)
		rr := postPurchase(h, f.stallID, api.PurchaseRequest{StudentId: &f.studentID, ProductId: "nope", Quantity: 1})

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "product_not_found")
	})

	t.Run("Scanned Stall Is Rejected", func(t *testing.T) {
		f := newFixture(t)
		mockLedger := ledger_mocks.NewService(t)

		h := NewPurchasesHandler(f.store, mockLedger)
		scanned := "https://fair.example.org/stall?id=" + f.otherID.String()
		rr := postPurchase(h, f.stallID, api.PurchaseRequest{Scanned: &scanned, ProductId: f.productID, Quantity: 1})

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "wrong_role")
	})

	t.Run("Missing Student", func(t *testing.T) {
		f := newFixture(t)
		mockLedger := ledger_mocks.NewService(t)

		h := NewPurchasesHandler(f.store, mockLedger)
		rr := postPurchase(h, f.stallID, api.PurchaseRequest{ProductId: f.productID, Quantity: 1})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid_request")
	})
}

func TestCreateRecharge(t *testing.T) {
	f := newFixture(t)
	mockLedger := ledger_mocks.NewService(t)
	mockLedger.On("RechargeWithID", mock.Anything, "pay-1", f.studentID, mock.MatchedBy(func(a money.Amount) bool {
		return a.Equal(money.MustParse("12.5"))
	})).Return(nil)

	h := NewPurchasesHandler(f.store, mockLedger)
	b, _ := json.Marshal(api.RechargeRequest{Amount: "12.50", RechargeId: ptr("pay-1")})
	req := httptest.NewRequest(http.MethodPost, "/students/"+f.studentID+"/recharges", bytes.NewReader(b))
	rr := httptest.NewRecorder()
	h.CreateRecharge(rr, req, uuid.MustParse(f.studentID))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), f.studentID)
}

func ptr[T any](v T) *T { return &v }
