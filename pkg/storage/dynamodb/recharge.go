package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/storage"
)

const rechargesByStudentIndex = "student_id-index"

// ApplyRecharge atomically adds the recharge amount to the student's balance and
// records the recharge. ADD is commutative, so no balance read is needed; the
// recharge record makes redelivery of the same recharge id a no-op.
func (s *Store) ApplyRecharge(ctx context.Context, recharge *models.Recharge) error {
	recharge.Timestamp = s.commitTime()

	rechargeAV, err := attributevalue.MarshalMap(recharge)
	if err != nil {
		return fmt.Errorf("failed to marshal recharge: %w", err)
	}

	amountAV, err := attributevalue.Marshal(recharge.Amount)
	if err != nil {
		return fmt.Errorf("failed to marshal amount: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Increment the student's balance.
				Update: &types.Update{
					TableName: aws.String(s.Tables.Accounts),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: recharge.StudentID},
					},
					UpdateExpression:    aws.String("SET version = version + :inc ADD balance :amount"),
					ConditionExpression: aws.String("attribute_exists(id) AND #role = :student"),
					ExpressionAttributeNames: map[string]string{
						"#role": "role",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount":  amountAV,
						":inc":     &types.AttributeValueMemberN{Value: "1"},
						":student": &types.AttributeValueMemberS{Value: string(models.RoleStudent)},
					},
				},
			},
			{
				// Operation 2: Record the recharge exactly once.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Recharges),
					Item:                rechargeAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err == nil {
		return nil
	}

	codes, ok := cancellationCodes(err)
	if !ok {
		return fmt.Errorf("failed to execute recharge transaction: %w", err)
	}

	if codeAt(codes, 1) == codeConditionalCheckFailed {
		return fmt.Errorf("recharge %s: %w", recharge.ID, storage.ErrDuplicateRecharge)
	}

	if codeAt(codes, 0) == codeConditionalCheckFailed {
		// Tell a missing account apart from one with the wrong role.
		account, getErr := s.GetAccount(ctx, recharge.StudentID)
		if errors.Is(getErr, storage.ErrNotFound) {
			return fmt.Errorf("student %s: %w", recharge.StudentID, storage.ErrAccountVanished)
		}
		if getErr != nil {
			return fmt.Errorf("failed to read account after rejected recharge: %w", getErr)
		}
		if !account.IsStudent() {
			return fmt.Errorf("account %s: %w", account.ID, storage.ErrNotAStudent)
		}
		return fmt.Errorf("student %s: %w", recharge.StudentID, storage.ErrConflict)
	}

	if hasCode(codes, codeTransactionConflict) {
		return fmt.Errorf("student %s: %w", recharge.StudentID, storage.ErrConflict)
	}

	return fmt.Errorf("failed to execute recharge transaction: %w", err)
}

// ListRechargesByStudent retrieves every recharge applied to a student.
func (s *Store) ListRechargesByStudent(ctx context.Context, studentID string) ([]models.Recharge, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Recharges),
		IndexName:              aws.String(rechargesByStudentIndex),
		KeyConditionExpression: aws.String("student_id = :student_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":student_id": &types.AttributeValueMemberS{Value: studentID},
		},
	}

	items, err := s.queryAll(ctx, input, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to query recharges by student: %w", err)
	}

	var recharges []models.Recharge
	if err := attributevalue.UnmarshalListOfMaps(items, &recharges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recharges: %w", err)
	}

	return recharges, nil
}
