package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/storage"
)

// Positions of the items in the purchase TransactWriteItems call.
const (
	purchaseItemStudent = iota
	purchaseItemStall
	purchaseItemTransaction
)

// CommitPurchase runs one attempt of the purchase atomic unit.
//
// The student's balance is re-read with a consistent read, checked, and written back
// conditioned on the version that was read. The transaction record is put in the same
// TransactWriteItems call, so the debit and the record commit together or not at all.
func (s *Store) CommitPurchase(ctx context.Context, intent *models.PurchaseIntent) (*models.Transaction, error) {
	// 1. Re-read the authoritative state of both parties.
	student, err := s.GetAccount(ctx, intent.StudentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("student %s: %w", intent.StudentID, storage.ErrAccountVanished)
		}
		return nil, fmt.Errorf("failed to read student account: %w", err)
	}
	if !student.IsStudent() {
		return nil, fmt.Errorf("account %s: %w", student.ID, storage.ErrNotAStudent)
	}

	stall, err := s.GetAccount(ctx, intent.StallID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("stall %s: %w", intent.StallID, storage.ErrNotAStall)
		}
		return nil, fmt.Errorf("failed to read stall account: %w", err)
	}
	if !stall.IsStall() {
		return nil, fmt.Errorf("account %s: %w", stall.ID, storage.ErrNotAStall)
	}

	// 2. Verify the debit against the balance just read.
	newBalance := student.CurrentBalance().Sub(intent.TotalAmount)
	if newBalance.IsNegative() {
		return nil, storage.ErrInsufficientFunds
	}

	// 3. Build the transaction record with the store-assigned timestamp.
	now := s.commitTime()
	tx := &models.Transaction{
		ID:          intent.TransactionID,
		StudentID:   student.ID,
		StudentName: student.Name,
		StallID:     stall.ID,
		StallName:   stall.Name,
		ProductID:   intent.ProductID,
		ProductName: intent.ProductName,
		Quantity:    intent.Quantity,
		TotalAmount: intent.TotalAmount,
		Timestamp:   now,
		Seq:         now.UnixNano(),
		GSI1PK:      models.TransactionLogPK,
	}

	slog.Log(ctx, slog.LevelDebug, "committing purchase", "transaction_id", tx.ID, "student_id", student.ID, "version", student.Version)

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	newBalanceAV, err := attributevalue.Marshal(newBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal balance: %w", err)
	}

	// 4. Construct the TransactWriteItems input.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Write the student's new balance if nobody else touched the account.
				Update: &types.Update{
					TableName: aws.String(s.Tables.Accounts),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: student.ID},
					},
					UpdateExpression:    aws.String("SET balance = :new_balance, version = version + :inc"),
					ConditionExpression: aws.String("version = :version AND #role = :student"),
					ExpressionAttributeNames: map[string]string{
						"#role": "role",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":new_balance": newBalanceAV,
						":version":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", student.Version)},
						":inc":         &types.AttributeValueMemberN{Value: "1"},
						":student":     &types.AttributeValueMemberS{Value: string(models.RoleStudent)},
					},
				},
			},
			{
				// Operation 2: The stall must still exist as a stall.
				ConditionCheck: &types.ConditionCheck{
					TableName: aws.String(s.Tables.Accounts),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: stall.ID},
					},
					ConditionExpression: aws.String("#role = :stall"),
					ExpressionAttributeNames: map[string]string{
						"#role": "role",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":stall": &types.AttributeValueMemberS{Value: string(models.RoleStall)},
					},
				},
			},
			{
				// Operation 3: Create the transaction record.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Transactions),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	// 5. Execute the transaction.
	_, err = s.Client.TransactWriteItems(ctx, input)
	if err == nil {
		return tx, nil
	}

	codes, ok := cancellationCodes(err)
	if !ok {
		return nil, fmt.Errorf("failed to execute purchase transaction: %w", err)
	}

	// The record already exists: an earlier attempt with this id committed and its
	// response was lost. Hand back what was stored instead of debiting twice.
	if codeAt(codes, purchaseItemTransaction) == codeConditionalCheckFailed {
		existing, getErr := s.GetTransaction(ctx, tx.ID)
		if getErr != nil {
			return nil, fmt.Errorf("transaction %s already exists but could not be read: %w", tx.ID, getErr)
		}
		return existing, nil
	}

	if codeAt(codes, purchaseItemStall) == codeConditionalCheckFailed {
		return nil, fmt.Errorf("stall %s: %w", stall.ID, storage.ErrNotAStall)
	}

	// A version mismatch or a competing DynamoDB transaction: the read is stale.
	if codeAt(codes, purchaseItemStudent) == codeConditionalCheckFailed || hasCode(codes, codeTransactionConflict) {
		return nil, fmt.Errorf("student %s: %w", student.ID, storage.ErrConflict)
	}

	return nil, fmt.Errorf("failed to execute purchase transaction: %w", err)
}
