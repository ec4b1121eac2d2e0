// Package recharges applies payment-gateway recharge callbacks delivered through SQS.
package recharges

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/fair-wallet/pkg/ledger"
	"github.com/chris/fair-wallet/pkg/money"
)

// ErrMalformedMessage is returned for messages that can never be applied.
var ErrMalformedMessage = errors.New("malformed recharge message")

// Message is the body the payment gateway callback enqueues.
type Message struct {
	RechargeID string       `json:"recharge_id"`
	StudentID  string       `json:"student_id"`
	Amount     money.Amount `json:"amount"`
}

// Processor applies recharge messages through the ledger.
type Processor struct {
	Ledger ledger.Service
}

// NewProcessor creates a Processor.
func NewProcessor(ledgerService ledger.Service) *Processor {
	return &Processor{Ledger: ledgerService}
}

// Decode parses a message body. The SQS message id is the fallback recharge id,
// so a redelivered message is still applied once.
func Decode(messageID, body string) (*Message, error) {
	var msg Message
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.RechargeID == "" {
		msg.RechargeID = messageID
	}
	if msg.StudentID == "" {
		return nil, fmt.Errorf("%w: student_id is required", ErrMalformedMessage)
	}
	return &msg, nil
}

// HandleSQS applies every record of the batch. Records that failed for a
// transient reason are reported back so SQS redelivers only those. Records that
// can never succeed are logged and dropped.
func (p *Processor) HandleSQS(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, record := range sqsEvent.Records {
		err := p.apply(ctx, record)
		switch {
		case err == nil:
		case permanent(err):
			slog.Error("dropping recharge message", "message_id", record.MessageId, "error", err)
		default:
			slog.Warn("recharge failed, will be retried", "message_id", record.MessageId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	return resp, nil
}

func (p *Processor) apply(ctx context.Context, record events.SQSMessage) error {
	msg, err := Decode(record.MessageId, record.Body)
	if err != nil {
		return err
	}
	slog.Info("applying recharge", "recharge_id", msg.RechargeID, "student_id", msg.StudentID, "amount", msg.Amount.String())
	return p.Ledger.RechargeWithID(ctx, msg.RechargeID, msg.StudentID, msg.Amount)
}

func permanent(err error) bool {
	return errors.Is(err, ErrMalformedMessage) ||
		errors.Is(err, ledger.ErrInvalidAmount) ||
		errors.Is(err, ledger.ErrInvalidRequest) ||
		errors.Is(err, ledger.ErrAccountVanished) ||
		errors.Is(err, ledger.ErrNotAStudent)
}
