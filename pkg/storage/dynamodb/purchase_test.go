package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/chris/fair-wallet/pkg/storage"
	"github.com/chris/fair-wallet/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCommitPurchase(t *testing.T) {
	intent := &models.PurchaseIntent{
		TransactionID: "tx-1",
		StudentID:     "s-1",
		StallID:       "st-1",
		ProductID:     "p-1",
		ProductName:   "Lemonade",
		Quantity:      2,
		TotalAmount:   money.MustParse("5.00"),
	}
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	setupReads := func(mockClient *mocks.DynamoDBAPI, student *models.Account, stall *models.Account) {
		mockClient.On("GetItem", mock.Anything, getItemFor("accounts", "s-1")).
			Return(&dynamodb.GetItemOutput{Item: itemOf(t, student)}, nil)
		if stall != nil {
			mockClient.On("GetItem", mock.Anything, getItemFor("accounts", "st-1")).
				Return(&dynamodb.GetItemOutput{Item: itemOf(t, stall)}, nil)
		}
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		setupReads(mockClient, studentAccount("s-1", "10.00", 3), stallAccount("st-1"))
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 3 {
				return false
			}
			update := in.TransactItems[0].Update
			version := update.ExpressionAttributeValues[":version"].(*types.AttributeValueMemberN)
			newBalance := update.ExpressionAttributeValues[":new_balance"].(*types.AttributeValueMemberN)
			return version.Value == "3" && newBalance.Value == "5" &&
				in.TransactItems[1].ConditionCheck != nil &&
				*in.TransactItems[2].Put.TableName == "transactions"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := newTestStore(mockClient)
		store.Now = func() time.Time { return fixed }
		tx, err := store.CommitPurchase(context.Background(), intent)

		require.NoError(t, err)
		assert.Equal(t, "tx-1", tx.ID)
		assert.Equal(t, "Student s-1", tx.StudentName)
		assert.Equal(t, "Stall st-1", tx.StallName)
		assert.Equal(t, fixed, tx.Timestamp)
		assert.Equal(t, fixed.UnixNano(), tx.Seq)
		assert.Equal(t, models.TransactionLogPK, tx.GSI1PK)
		assert.True(t, tx.TotalAmount.Equal(money.MustParse("5.00")))
		mockClient.AssertExpectations(t)
	})

	t.Run("Exact Balance Succeeds", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		setupReads(mockClient, studentAccount("s-1", "5.00", 0), stallAccount("st-1"))
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := newTestStore(mockClient)
		_, err := store.CommitPurchase(context.Background(), intent)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		setupReads(mockClient, studentAccount("s-1", "4.99", 0), stallAccount("st-1"))

		store := newTestStore(mockClient)
		_, err := store.CommitPurchase(context.Background(), intent)

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
		mockClient.AssertExpectations(t)
	})

	t.Run("Student Vanished", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, getItemFor("accounts", "s-1")).
			Return(&dynamodb.GetItemOutput{}, nil)

		store := newTestStore(mockClient)
		_, err := store.CommitPurchase(context.Background(), intent)

		assert.ErrorIs(t, err, storage.ErrAccountVanished)
		mockClient.AssertExpectations(t)
	})

	t.Run("Buyer Is A Stall", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, getItemFor("accounts", "s-1")).
			Return(&dynamodb.GetItemOutput{Item: itemOf(t, stallAccount("s-1"))}, nil)

		store := newTestStore(mockClient)
		_, err := store.CommitPurchase(context.Background(), intent)

		assert.ErrorIs(t, err, storage.ErrNotAStudent)
		mockClient.AssertExpectations(t)
	})

	t.Run("Seller Is A Student", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		other := studentAccount("st-1", "1.00", 0)
		setupReads(mockClient, studentAccount("s-1", "10.00", 0), other)

		store := newTestStore(mockClient)
		_, err := store.CommitPurchase(context.Background(), intent)

		assert.ErrorIs(t, err, storage.ErrNotAStall)
		mockClient.AssertExpectations(t)
	})

	t.Run("Version Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		setupReads(mockClient, studentAccount("s-1", "10.00", 0), stallAccount("st-1"))
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, canceled(codeConditionalCheckFailed, "", ""))

		store := newTestStore(mockClient)
		_, err := store.CommitPurchase(context.Background(), intent)

		assert.ErrorIs(t, err, storage.ErrConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Transaction Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		setupReads(mockClient, studentAccount("s-1", "10.00", 0), stallAccount("st-1"))
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, canceled(codeTransactionConflict, "", ""))

		store := newTestStore(mockClient)
		_, err := store.CommitPurchase(context.Background(), intent)

		assert.ErrorIs(t, err, storage.ErrConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Stall Removed During Commit", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		setupReads(mockClient, studentAccount("s-1", "10.00", 0), stallAccount("st-1"))
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, canceled("", codeConditionalCheckFailed, ""))

		store := newTestStore(mockClient)
		_, err := store.CommitPurchase(context.Background(), intent)

		assert.ErrorIs(t, err, storage.ErrNotAStall)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Committed Returns Stored Record", func(t *testing.T) {
		stored := &models.Transaction{ID: "tx-1", StudentID: "s-1", StallID: "st-1", Quantity: 2, TotalAmount: money.MustParse("5.00"), Timestamp: fixed}

		mockClient := new(mocks.DynamoDBAPI)
		setupReads(mockClient, studentAccount("s-1", "5.00", 1), stallAccount("st-1"))
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, canceled("", "", codeConditionalCheckFailed))
		mockClient.On("GetItem", mock.Anything, getItemFor("transactions", "tx-1")).
			Return(&dynamodb.GetItemOutput{Item: itemOf(t, stored)}, nil)

		store := newTestStore(mockClient)
		tx, err := store.CommitPurchase(context.Background(), intent)

		require.NoError(t, err)
		assert.Equal(t, "tx-1", tx.ID)
		assert.Equal(t, fixed, tx.Timestamp.UTC())
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		setupReads(mockClient, studentAccount("s-1", "10.00", 0), stallAccount("st-1"))
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("network"))

		store := newTestStore(mockClient)
		_, err := store.CommitPurchase(context.Background(), intent)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrConflict)
		assert.Contains(t, err.Error(), "failed to execute purchase transaction")
		mockClient.AssertExpectations(t)
	})
}

func TestCommitTimeIsMonotonic(t *testing.T) {
	later := time.Date(2025, 3, 1, 12, 0, 1, 0, time.UTC)
	earlier := later.Add(-time.Second)

	store := newTestStore(new(mocks.DynamoDBAPI))
	store.Now = func() time.Time { return later }
	first := store.commitTime()
	store.Now = func() time.Time { return earlier }
	second := store.commitTime()

	assert.False(t, second.Before(first))
}
