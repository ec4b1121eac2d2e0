package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chris/fair-wallet/pkg/feed"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/chris/fair-wallet/pkg/storage"
	"github.com/chris/fair-wallet/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	*mocks.PurchaseStore
	*mocks.RechargeStore
}

func newMockStore(t *testing.T) mockStore {
	return mockStore{PurchaseStore: mocks.NewPurchaseStore(t), RechargeStore: mocks.NewRechargeStore(t)}
}

var fastRetry = RetryPolicy{MaxAttempts: 5, BaseDelay: time.Microsecond, MaxDelay: time.Microsecond}

type recordingPublisher struct {
	mu     sync.Mutex
	events []feed.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e feed.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type failingNotifier struct{ calls int }

func (n *failingNotifier) TransactionCommitted(context.Context, *models.Transaction) error {
	n.calls++
	return errors.New("queue unavailable")
}

func validRequest() PurchaseRequest {
	return PurchaseRequest{
		StudentID:   "s-1",
		StallID:     "st-1",
		ProductID:   "p-1",
		ProductName: "Popcorn",
		UnitPrice:   money.MustParse("2.50"),
		Quantity:    2,
	}
}

func TestPurchaseValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PurchaseRequest)
		want   error
	}{
		{"Zero Quantity", func(r *PurchaseRequest) { r.Quantity = 0 }, ErrInvalidQuantity},
		{"Negative Quantity", func(r *PurchaseRequest) { r.Quantity = -3 }, ErrInvalidQuantity},
		{"Zero Price", func(r *PurchaseRequest) { r.UnitPrice = money.Zero }, ErrInvalidAmount},
		{"Negative Price", func(r *PurchaseRequest) { r.UnitPrice = money.MustParse("-1") }, ErrInvalidAmount},
		{"Missing Student", func(r *PurchaseRequest) { r.StudentID = "" }, ErrInvalidRequest},
		{"Missing Product", func(r *PurchaseRequest) { r.ProductID = "" }, ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore(t)
			engine := NewEngine(store, nil, nil, fastRetry)

			req := validRequest()
			tt.mutate(&req)
			_, err := engine.Purchase(context.Background(), req)

			assert.ErrorIs(t, err, tt.want)
			store.PurchaseStore.AssertNotCalled(t, "CommitPurchase", mock.Anything, mock.Anything)
		})
	}
}

func TestPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := newMockStore(t)
		publisher := &recordingPublisher{}
		committed := &models.Transaction{ID: "tx-1", StudentID: "s-1", StallID: "st-1", TotalAmount: money.MustParse("5.00")}

		store.PurchaseStore.On("CommitPurchase", mock.Anything, mock.MatchedBy(func(in *models.PurchaseIntent) bool {
			return in.TotalAmount.Equal(money.MustParse("5.00")) && in.Quantity == 2 && in.TransactionID != ""
		})).Return(committed, nil).Once()

		engine := NewEngine(store, publisher, nil, fastRetry)
		tx, err := engine.Purchase(ctx, validRequest())

		require.NoError(t, err)
		assert.Equal(t, committed, tx)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, feed.EventTransactionCommitted, publisher.events[0].Type)
	})

	t.Run("Retries Conflicts With The Same Transaction Id", func(t *testing.T) {
		store := newMockStore(t)
		var ids []string
		store.PurchaseStore.On("CommitPurchase", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { ids = append(ids, args.Get(1).(*models.PurchaseIntent).TransactionID) }).
			Return(nil, storage.ErrConflict).Twice()
		store.PurchaseStore.On("CommitPurchase", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { ids = append(ids, args.Get(1).(*models.PurchaseIntent).TransactionID) }).
			Return(&models.Transaction{ID: "tx-1"}, nil).Once()

		engine := NewEngine(store, nil, nil, fastRetry)
		_, err := engine.Purchase(ctx, validRequest())

		require.NoError(t, err)
		require.Len(t, ids, 3)
		assert.Equal(t, ids[0], ids[1])
		assert.Equal(t, ids[1], ids[2])
	})

	t.Run("Retry Budget Exhausted", func(t *testing.T) {
		store := newMockStore(t)
		store.PurchaseStore.On("CommitPurchase", mock.Anything, mock.Anything).
			Return(nil, storage.ErrConflict).Times(5)

		engine := NewEngine(store, nil, nil, fastRetry)
		_, err := engine.Purchase(ctx, validRequest())

		assert.ErrorIs(t, err, ErrTransactionConflict)
		var perr *PurchaseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 5, perr.Attempts)
		store.PurchaseStore.AssertNumberOfCalls(t, "CommitPurchase", 5)
	})

	t.Run("Declines Are Not Retried", func(t *testing.T) {
		for _, cause := range []error{ErrInsufficientFunds, ErrAccountVanished, ErrNotAStudent, ErrNotAStall} {
			store := newMockStore(t)
			store.PurchaseStore.On("CommitPurchase", mock.Anything, mock.Anything).Return(nil, cause).Once()

			engine := NewEngine(store, nil, nil, fastRetry)
			_, err := engine.Purchase(ctx, validRequest())

			assert.ErrorIs(t, err, cause)
			assert.True(t, IsDecline(err))
		}
	})

	t.Run("Infrastructure Errors Are Not Retried", func(t *testing.T) {
		store := newMockStore(t)
		boom := errors.New("dynamo down")
		store.PurchaseStore.On("CommitPurchase", mock.Anything, mock.Anything).Return(nil, boom).Once()

		engine := NewEngine(store, nil, nil, fastRetry)
		_, err := engine.Purchase(ctx, validRequest())

		assert.ErrorIs(t, err, boom)
		assert.False(t, IsDecline(err))
	})

	t.Run("Cancelled While Backing Off", func(t *testing.T) {
		store := newMockStore(t)
		cctx, cancel := context.WithCancel(ctx)
		store.PurchaseStore.On("CommitPurchase", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { cancel() }).
			Return(nil, storage.ErrConflict).Once()

		engine := NewEngine(store, nil, nil, RetryPolicy{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour})
		_, err := engine.Purchase(cctx, validRequest())

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Hook Failures Do Not Fail The Purchase", func(t *testing.T) {
		store := newMockStore(t)
		store.PurchaseStore.On("CommitPurchase", mock.Anything, mock.Anything).Return(&models.Transaction{ID: "tx-1"}, nil).Once()
		notifier := &failingNotifier{}

		engine := NewEngine(store, &recordingPublisher{err: errors.New("feed down")}, notifier, fastRetry)
		tx, err := engine.Purchase(ctx, validRequest())

		require.NoError(t, err)
		assert.Equal(t, "tx-1", tx.ID)
		assert.Equal(t, 1, notifier.calls)
	})
}

func TestRecharge(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid Amount", func(t *testing.T) {
		store := newMockStore(t)
		engine := NewEngine(store, nil, nil, fastRetry)

		assert.ErrorIs(t, engine.Recharge(ctx, "s-1", money.Zero), ErrInvalidAmount)
		assert.ErrorIs(t, engine.Recharge(ctx, "s-1", money.MustParse("-5")), ErrInvalidAmount)
		store.RechargeStore.AssertNotCalled(t, "ApplyRecharge", mock.Anything, mock.Anything)
	})

	t.Run("Success Publishes Event", func(t *testing.T) {
		store := newMockStore(t)
		publisher := &recordingPublisher{}
		store.RechargeStore.On("ApplyRecharge", mock.Anything, mock.MatchedBy(func(r *models.Recharge) bool {
			return r.ID == "r-1" && r.StudentID == "s-1" && r.Amount.Equal(money.FromInt(10))
		})).Return(nil).Once()

		engine := NewEngine(store, publisher, nil, fastRetry)
		require.NoError(t, engine.RechargeWithID(ctx, "r-1", "s-1", money.FromInt(10)))
		require.Len(t, publisher.events, 1)
		assert.Equal(t, feed.EventRechargeApplied, publisher.events[0].Type)
	})

	t.Run("Duplicate Is A No-op", func(t *testing.T) {
		store := newMockStore(t)
		store.RechargeStore.On("ApplyRecharge", mock.Anything, mock.Anything).Return(storage.ErrDuplicateRecharge).Once()

		engine := NewEngine(store, nil, nil, fastRetry)
		assert.NoError(t, engine.RechargeWithID(ctx, "r-1", "s-1", money.FromInt(10)))
	})

	t.Run("Not A Student", func(t *testing.T) {
		store := newMockStore(t)
		store.RechargeStore.On("ApplyRecharge", mock.Anything, mock.Anything).Return(storage.ErrNotAStudent).Once()

		engine := NewEngine(store, nil, nil, fastRetry)
		assert.ErrorIs(t, engine.Recharge(ctx, "st-1", money.FromInt(10)), ErrNotAStudent)
	})

	t.Run("Conflicts Are Retried", func(t *testing.T) {
		store := newMockStore(t)
		store.RechargeStore.On("ApplyRecharge", mock.Anything, mock.Anything).Return(storage.ErrConflict).Once()
		store.RechargeStore.On("ApplyRecharge", mock.Anything, mock.Anything).Return(nil).Once()

		engine := NewEngine(store, nil, nil, fastRetry)
		assert.NoError(t, engine.Recharge(ctx, "s-1", money.FromInt(10)))
	})
}

func TestRetryPolicyBackoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: 20 * time.Millisecond, MaxDelay: 500 * time.Millisecond}
	for retry := 1; retry <= 10; retry++ {
		d := p.backoff(retry)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 500*time.Millisecond)
	}
	assert.Equal(t, DefaultRetryPolicy(), RetryPolicy{}.withDefaults())
}
