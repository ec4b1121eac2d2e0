package reporting

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/chris/fair-wallet/pkg/feed"
	"github.com/chris/fair-wallet/pkg/models"
)

// Projection is a live, deduplicated view of the transaction log.
//
// Events may arrive twice (engine and stream poller both publish) and out of
// order; the projection keeps each transaction id once and stays sorted newest first.
type Projection struct {
	mu     sync.RWMutex
	byID   map[string]struct{}
	sorted []models.Transaction
	filter feed.Filter
}

// NewProjection creates an empty Projection that only keeps transactions matching filter.
func NewProjection(filter feed.Filter) *Projection {
	return &Projection{
		byID:   make(map[string]struct{}),
		filter: filter,
	}
}

// Seed loads an initial history, typically read from the store before subscribing.
func (p *Projection) Seed(txs []models.Transaction) {
	for i := range txs {
		p.Apply(&txs[i])
	}
}

// Apply inserts a transaction. It returns false for duplicates and filtered-out transactions.
func (p *Projection) Apply(tx *models.Transaction) bool {
	if !p.filter.Matches(feed.TransactionCommitted(tx)) {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, seen := p.byID[tx.ID]; seen {
		return false
	}
	p.byID[tx.ID] = struct{}{}

	i := sort.Search(len(p.sorted), func(i int) bool { return newer(*tx, p.sorted[i]) })
	p.sorted = append(p.sorted, models.Transaction{})
	copy(p.sorted[i+1:], p.sorted[i:])
	p.sorted[i] = *tx
	return true
}

// Run applies transactionCommitted events until the channel closes or ctx is done.
func (p *Projection) Run(ctx context.Context, events <-chan feed.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			tx, isTx := e.Payload.(*models.Transaction)
			if e.Type != feed.EventTransactionCommitted || !isTx {
				continue
			}
			if p.Apply(tx) {
				slog.Debug("projection updated", "transaction_id", tx.ID)
			}
		}
	}
}

// Snapshot returns a copy of the view, newest first. Safe for concurrent use.
func (p *Projection) Snapshot() []models.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]models.Transaction, len(p.sorted))
	copy(out, p.sorted)
	return out
}

// Sales aggregates the current view by stall.
func (p *Projection) Sales() []StallSales {
	return SalesByStall(p.Snapshot())
}

// Len returns the number of transactions in the view.
func (p *Projection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sorted)
}
