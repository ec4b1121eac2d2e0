// Package notify delivers purchase receipts to downstream consumers.
package notify

import (
	"context"

	"github.com/chris/fair-wallet/pkg/models"
)

// Notifier defines the interface for a component that announces committed transactions.
type Notifier interface {
	// TransactionCommitted hands a committed purchase to the receipt channel.
	TransactionCommitted(ctx context.Context, tx *models.Transaction) error
}

// NoOp is a Notifier that does nothing. Used when no receipts queue is configured.
type NoOp struct{}

// TransactionCommitted does nothing.
func (NoOp) TransactionCommitted(context.Context, *models.Transaction) error { return nil }
