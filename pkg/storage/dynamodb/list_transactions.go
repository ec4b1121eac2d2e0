package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/fair-wallet/pkg/models"
)

const (
	transactionLogGSI = "gsi1pk-seq-index"
	byStudentIndex    = "student_id-seq-index"
	byStallIndex      = "stall_id-seq-index"
)

// ListTransactions returns the newest transactions across all stalls.
func (s *Store) ListTransactions(ctx context.Context, limit int32) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Transactions),
		IndexName:              aws.String(transactionLogGSI),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: models.TransactionLogPK},
		},
		ScanIndexForward: aws.Bool(false), // Sort by seq in descending order
	}
	if limit > 0 {
		input.Limit = &limit
	}

	items, err := s.queryAll(ctx, input, int(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query for transactions: %w", err)
	}

	var txs []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(items, &txs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	return txs, nil
}

// ListTransactionsByStudent returns a student's purchase history, newest first.
func (s *Store) ListTransactionsByStudent(ctx context.Context, studentID string) ([]models.Transaction, error) {
	txs, err := s.listByPartition(ctx, byStudentIndex, "student_id", studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query for transactions by student: %w", err)
	}
	return txs, nil
}

// ListTransactionsByStall returns a stall's sales history, newest first.
func (s *Store) ListTransactionsByStall(ctx context.Context, stallID string) ([]models.Transaction, error) {
	txs, err := s.listByPartition(ctx, byStallIndex, "stall_id", stallID)
	if err != nil {
		return nil, fmt.Errorf("failed to query for transactions by stall: %w", err)
	}
	return txs, nil
}

func (s *Store) listByPartition(ctx context.Context, index, attr, value string) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Transactions),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(attr + " = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		ScanIndexForward: aws.Bool(false),
	}

	items, err := s.queryAll(ctx, input, 0)
	if err != nil {
		return nil, err
	}

	var txs []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(items, &txs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}
	return txs, nil
}
