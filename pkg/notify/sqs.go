package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
)

// SQSAPI is the subset of the SQS client the notifier uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Receipt is the message body sent for every committed purchase.
type Receipt struct {
	TransactionID string       `json:"transaction_id"`
	StudentID     string       `json:"student_id"`
	StudentName   string       `json:"student_name"`
	StallID       string       `json:"stall_id"`
	StallName     string       `json:"stall_name"`
	ProductName   string       `json:"product_name"`
	Quantity      int64        `json:"quantity"`
	TotalAmount   money.Amount `json:"total_amount"`
	Timestamp     time.Time    `json:"timestamp"`
}

// SQSNotifier implements the Notifier interface using AWS SQS.
type SQSNotifier struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSNotifier creates a new SQSNotifier.
func NewSQSNotifier(client SQSAPI, queueURL string) *SQSNotifier {
	return &SQSNotifier{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var (
	_ Notifier = (*SQSNotifier)(nil)
	_ Notifier = NoOp{}
)

// TransactionCommitted sends the receipt to the SQS queue.
func (n *SQSNotifier) TransactionCommitted(ctx context.Context, tx *models.Transaction) error {
	body, err := json.Marshal(Receipt{
		TransactionID: tx.ID,
		StudentID:     tx.StudentID,
		StudentName:   tx.StudentName,
		StallID:       tx.StallID,
		StallName:     tx.StallName,
		ProductName:   tx.ProductName,
		Quantity:      tx.Quantity,
		TotalAmount:   tx.TotalAmount,
		Timestamp:     tx.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal receipt for SQS: %w", err)
	}

	_, err = n.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"stall_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(tx.StallID),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send receipt to SQS: %w", err)
	}

	return nil
}
