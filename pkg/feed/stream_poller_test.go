package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/chris/fair-wallet/pkg/feed/mocks"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testStreamARN = "arn:aws:dynamodb:eu-west-1:123456789012:table/transactions/stream/2025-01-01T00:00:00.000"

func txRecord(id string) streamtypes.Record {
	return streamtypes.Record{
		EventName: streamtypes.OperationTypeInsert,
		Dynamodb: &streamtypes.StreamRecord{
			SequenceNumber: aws.String("100"),
			NewImage: map[string]streamtypes.AttributeValue{
				"id":           &streamtypes.AttributeValueMemberS{Value: id},
				"student_id":   &streamtypes.AttributeValueMemberS{Value: "s-1"},
				"stall_id":     &streamtypes.AttributeValueMemberS{Value: "st-1"},
				"quantity":     &streamtypes.AttributeValueMemberN{Value: "2"},
				"total_amount": &streamtypes.AttributeValueMemberN{Value: "7.5"},
			},
		},
	}
}

func TestStreamPollerPoll(t *testing.T) {
	ctx := context.Background()

	mockClient := new(mocks.StreamsAPI)
	mockClient.On("DescribeStream", mock.Anything, mock.Anything).Return(&dynamodbstreams.DescribeStreamOutput{
		StreamDescription: &streamtypes.StreamDescription{
			Shards: []streamtypes.Shard{{ShardId: aws.String("shard-1")}},
		},
	}, nil)
	mockClient.On("GetShardIterator", mock.Anything, mock.MatchedBy(func(in *dynamodbstreams.GetShardIteratorInput) bool {
		return in.ShardIteratorType == streamtypes.ShardIteratorTypeLatest
	})).Return(&dynamodbstreams.GetShardIteratorOutput{ShardIterator: aws.String("it-1")}, nil).Once()
	mockClient.On("GetRecords", mock.Anything, mock.MatchedBy(func(in *dynamodbstreams.GetRecordsInput) bool {
		return *in.ShardIterator == "it-1"
	})).Return(&dynamodbstreams.GetRecordsOutput{
		Records:           []streamtypes.Record{txRecord("tx-1"), {EventName: streamtypes.OperationTypeRemove}},
		NextShardIterator: aws.String("it-2"),
	}, nil).Once()
	mockClient.On("GetRecords", mock.Anything, mock.MatchedBy(func(in *dynamodbstreams.GetRecordsInput) bool {
		return *in.ShardIterator == "it-2"
	})).Return(&dynamodbstreams.GetRecordsOutput{}, nil).Once()

	broker := NewBroker(8)
	events, cancel := broker.Subscribe(ctx, Filter{StallID: "st-1"})
	defer cancel()

	poller := NewStreamPoller(mockClient, testStreamARN, DecodeTransactions, broker, 0)
	require.NoError(t, poller.Poll(ctx))

	e := receive(t, events)
	tx, ok := e.Payload.(*models.Transaction)
	require.True(t, ok)
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, "7.50", tx.TotalAmount.String())

	// Second pass: the shard is already tracked and closes (no next iterator).
	require.NoError(t, poller.Poll(ctx))
	assert.Empty(t, poller.shards)
	assert.True(t, poller.finished["shard-1"])
	mockClient.AssertExpectations(t)
}

func TestStreamPollerRenewsExpiredIterator(t *testing.T) {
	ctx := context.Background()

	mockClient := new(mocks.StreamsAPI)
	mockClient.On("GetRecords", mock.Anything, mock.Anything).
		Return(nil, &streamtypes.ExpiredIteratorException{Message: aws.String("expired")}).Once()
	mockClient.On("GetShardIterator", mock.Anything, mock.MatchedBy(func(in *dynamodbstreams.GetShardIteratorInput) bool {
		return in.ShardIteratorType == streamtypes.ShardIteratorTypeAfterSequenceNumber && *in.SequenceNumber == "42"
	})).Return(&dynamodbstreams.GetShardIteratorOutput{ShardIterator: aws.String("it-new")}, nil).Once()

	poller := NewStreamPoller(mockClient, testStreamARN, DecodeTransactions, &NoOpPublisher{}, 0)
	cursor := &shardCursor{iterator: aws.String("it-old"), lastSeq: "42"}

	require.NoError(t, poller.readShard(ctx, "shard-1", cursor))
	assert.Equal(t, "it-new", *cursor.iterator)
	mockClient.AssertExpectations(t)
}

func TestStreamPollerFailingShardDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()

	mockClient := new(mocks.StreamsAPI)
	mockClient.On("DescribeStream", mock.Anything, mock.Anything).Return(&dynamodbstreams.DescribeStreamOutput{
		StreamDescription: &streamtypes.StreamDescription{
			Shards: []streamtypes.Shard{{ShardId: aws.String("shard-bad")}, {ShardId: aws.String("shard-good")}},
		},
	}, nil)
	mockClient.On("GetRecords", mock.Anything, mock.MatchedBy(func(in *dynamodbstreams.GetRecordsInput) bool {
		return *in.ShardIterator == "it-bad"
	})).Return(nil, errors.New("throttled"))
	mockClient.On("GetRecords", mock.Anything, mock.MatchedBy(func(in *dynamodbstreams.GetRecordsInput) bool {
		return *in.ShardIterator == "it-good"
	})).Return(&dynamodbstreams.GetRecordsOutput{
		Records:           []streamtypes.Record{txRecord("tx-9")},
		NextShardIterator: aws.String("it-good"),
	}, nil)

	broker := NewBroker(8)
	events, cancel := broker.Subscribe(ctx, Filter{})
	defer cancel()

	poller := NewStreamPoller(mockClient, testStreamARN, DecodeTransactions, broker, 0)
	poller.primed = true
	poller.shards["shard-bad"] = &shardCursor{iterator: aws.String("it-bad")}
	poller.shards["shard-good"] = &shardCursor{iterator: aws.String("it-good")}

	err := poller.Poll(ctx)
	assert.ErrorContains(t, err, "shard shard-bad")

	e := receive(t, events)
	assert.Equal(t, "tx-9", e.Payload.(*models.Transaction).ID)
	mockClient.AssertExpectations(t)
}

func TestStreamPollerDescribeError(t *testing.T) {
	mockClient := new(mocks.StreamsAPI)
	mockClient.On("DescribeStream", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	poller := NewStreamPoller(mockClient, testStreamARN, DecodeTransactions, &NoOpPublisher{}, 0)
	err := poller.Poll(context.Background())

	assert.ErrorContains(t, err, "failed to describe stream")
	mockClient.AssertExpectations(t)
}

func TestDecodeAccounts(t *testing.T) {
	record := streamtypes.Record{
		EventName: streamtypes.OperationTypeModify,
		Dynamodb: &streamtypes.StreamRecord{
			NewImage: map[string]streamtypes.AttributeValue{
				"id":      &streamtypes.AttributeValueMemberS{Value: "s-1"},
				"role":    &streamtypes.AttributeValueMemberS{Value: "student"},
				"balance": &streamtypes.AttributeValueMemberN{Value: "12.3"},
				"version": &streamtypes.AttributeValueMemberN{Value: "7"},
			},
		},
	}

	e, ok, err := DecodeAccounts(record)
	require.NoError(t, err)
	require.True(t, ok)
	payload := e.Payload.(BalanceChangedPayload)
	assert.Equal(t, "s-1", payload.StudentID)
	assert.Equal(t, "12.30", payload.Balance.String())
	assert.Equal(t, int64(7), payload.Version)

	record.Dynamodb.NewImage["role"] = &streamtypes.AttributeValueMemberS{Value: "stall"}
	_, ok, err = DecodeAccounts(record)
	require.NoError(t, err)
	assert.False(t, ok)
}
