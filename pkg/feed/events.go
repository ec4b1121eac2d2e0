package feed

import (
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
)

// EventType defines the type of a live feed event.
type EventType string

const (
	// EventTransactionCommitted carries a *models.Transaction.
	EventTransactionCommitted EventType = "transactionCommitted"
	// EventBalanceChanged carries a BalanceChangedPayload.
	EventBalanceChanged EventType = "balanceChanged"
	// EventRechargeApplied carries a *models.Recharge.
	EventRechargeApplied EventType = "rechargeApplied"
)

// Event is one message on the live feed.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

// BalanceChangedPayload is the payload of a balanceChanged event.
type BalanceChangedPayload struct {
	StudentID string       `json:"student_id"`
	Balance   money.Amount `json:"balance"`
	Version   int64        `json:"version"`
}

// TransactionCommitted builds the event for a committed purchase.
func TransactionCommitted(tx *models.Transaction) Event {
	return Event{Type: EventTransactionCommitted, Payload: tx}
}

// RechargeApplied builds the event for an applied recharge.
func RechargeApplied(r *models.Recharge) Event {
	return Event{Type: EventRechargeApplied, Payload: r}
}

// BalanceChanged builds the event for a new student balance.
func BalanceChanged(studentID string, balance money.Amount, version int64) Event {
	return Event{Type: EventBalanceChanged, Payload: BalanceChangedPayload{StudentID: studentID, Balance: balance, Version: version}}
}

// Filter selects the events a subscriber receives. Empty fields match anything.
type Filter struct {
	StudentID string
	StallID   string
}

// Matches reports whether the event concerns the filtered parties.
func (f Filter) Matches(e Event) bool {
	studentID, stallID := parties(e)
	if f.StudentID != "" && f.StudentID != studentID {
		return false
	}
	if f.StallID != "" && f.StallID != stallID {
		return false
	}
	return true
}

func parties(e Event) (studentID, stallID string) {
	switch p := e.Payload.(type) {
	case *models.Transaction:
		return p.StudentID, p.StallID
	case *models.Recharge:
		return p.StudentID, ""
	case BalanceChangedPayload:
		return p.StudentID, ""
	}
	return "", ""
}
