package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/chris/fair-wallet/pkg/models"
)

// StreamsAPI is the subset of the DynamoDB Streams client the poller uses.
type StreamsAPI interface {
	DescribeStream(ctx context.Context, params *dynamodbstreams.DescribeStreamInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.DescribeStreamOutput, error)
	GetShardIterator(ctx context.Context, params *dynamodbstreams.GetShardIteratorInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetShardIteratorOutput, error)
	GetRecords(ctx context.Context, params *dynamodbstreams.GetRecordsInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetRecordsOutput, error)
}

// Decoder turns a stream record into a feed event. ok is false for records that
// produce no event.
type Decoder func(record streamtypes.Record) (event Event, ok bool, err error)

type shardCursor struct {
	iterator *string
	lastSeq  string
}

// StreamPoller tails one DynamoDB stream and republishes decoded records.
//
// Shards open when the poller first runs are read from LATEST. Shards that appear
// later (splits) are read from TRIM_HORIZON so nothing written to them is missed.
type StreamPoller struct {
	Client    StreamsAPI
	StreamARN string
	Decode    Decoder
	Publisher Publisher
	Interval  time.Duration

	shards   map[string]*shardCursor
	finished map[string]bool
	primed   bool
}

// NewStreamPoller creates a StreamPoller.
func NewStreamPoller(client StreamsAPI, streamARN string, decode Decoder, publisher Publisher, interval time.Duration) *StreamPoller {
	if interval <= 0 {
		interval = time.Second
	}
	return &StreamPoller{
		Client:    client,
		StreamARN: streamARN,
		Decode:    decode,
		Publisher: publisher,
		Interval:  interval,
		shards:    make(map[string]*shardCursor),
		finished:  make(map[string]bool),
	}
}

// Run polls until ctx is cancelled. Poll errors are logged and retried on the next tick.
func (p *StreamPoller) Run(ctx context.Context) error {
	slog.Info("starting stream poller", "stream_arn", p.StreamARN, "interval", p.Interval)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		if err := p.Poll(ctx); err != nil && ctx.Err() == nil {
			slog.Error("stream poll failed", "stream_arn", p.StreamARN, "error", err)
		}
		select {
		case <-ctx.Done():
			slog.Info("stream poller stopped", "stream_arn", p.StreamARN)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll performs one discovery and read pass over every shard. A failing shard
// does not stop the others from being read.
func (p *StreamPoller) Poll(ctx context.Context) error {
	if err := p.refreshShards(ctx); err != nil {
		return err
	}

	var errs []error
	for shardID, cursor := range p.shards {
		if err := p.readShard(ctx, shardID, cursor); err != nil {
			slog.Warn("failed to read shard", "stream_arn", p.StreamARN, "shard_id", shardID, "error", err)
			errs = append(errs, fmt.Errorf("shard %s: %w", shardID, err))
		}
	}
	return errors.Join(errs...)
}

func (p *StreamPoller) refreshShards(ctx context.Context) error {
	iteratorType := streamtypes.ShardIteratorTypeTrimHorizon
	if !p.primed {
		iteratorType = streamtypes.ShardIteratorTypeLatest
	}

	input := &dynamodbstreams.DescribeStreamInput{StreamArn: aws.String(p.StreamARN)}
	for {
		out, err := p.Client.DescribeStream(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to describe stream: %w", err)
		}
		if out.StreamDescription == nil {
			break
		}

		for _, shard := range out.StreamDescription.Shards {
			id := aws.ToString(shard.ShardId)
			if _, tracked := p.shards[id]; tracked || p.finished[id] {
				continue
			}
			it, err := p.Client.GetShardIterator(ctx, &dynamodbstreams.GetShardIteratorInput{
				StreamArn:         aws.String(p.StreamARN),
				ShardId:           aws.String(id),
				ShardIteratorType: iteratorType,
			})
			if err != nil {
				return fmt.Errorf("failed to get iterator for shard %s: %w", id, err)
			}
			p.shards[id] = &shardCursor{iterator: it.ShardIterator}
		}

		if out.StreamDescription.LastEvaluatedShardId == nil {
			break
		}
		input.ExclusiveStartShardId = out.StreamDescription.LastEvaluatedShardId
	}

	p.primed = true
	return nil
}

func (p *StreamPoller) readShard(ctx context.Context, shardID string, cursor *shardCursor) error {
	out, err := p.Client.GetRecords(ctx, &dynamodbstreams.GetRecordsInput{ShardIterator: cursor.iterator})
	if err != nil {
		var expired *streamtypes.ExpiredIteratorException
		if errors.As(err, &expired) {
			return p.renewIterator(ctx, shardID, cursor)
		}
		return fmt.Errorf("failed to get records: %w", err)
	}

	for _, record := range out.Records {
		if record.Dynamodb != nil && record.Dynamodb.SequenceNumber != nil {
			cursor.lastSeq = *record.Dynamodb.SequenceNumber
		}
		event, ok, err := p.Decode(record)
		if err != nil {
			slog.Warn("skipping undecodable stream record", "shard_id", shardID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if err := p.Publisher.Publish(ctx, event); err != nil {
			slog.Error("failed to publish stream event", "type", event.Type, "error", err)
		}
	}

	if out.NextShardIterator == nil {
		// The shard was closed by a split and has been fully read.
		delete(p.shards, shardID)
		p.finished[shardID] = true
		return nil
	}
	cursor.iterator = out.NextShardIterator
	return nil
}

func (p *StreamPoller) renewIterator(ctx context.Context, shardID string, cursor *shardCursor) error {
	input := &dynamodbstreams.GetShardIteratorInput{
		StreamArn:         aws.String(p.StreamARN),
		ShardId:           aws.String(shardID),
		ShardIteratorType: streamtypes.ShardIteratorTypeLatest,
	}
	if cursor.lastSeq != "" {
		input.ShardIteratorType = streamtypes.ShardIteratorTypeAfterSequenceNumber
		input.SequenceNumber = aws.String(cursor.lastSeq)
	}
	it, err := p.Client.GetShardIterator(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to renew expired iterator: %w", err)
	}
	cursor.iterator = it.ShardIterator
	return nil
}

// DecodeTransactions emits a transactionCommitted event for every new transaction record.
func DecodeTransactions(record streamtypes.Record) (Event, bool, error) {
	if record.EventName != streamtypes.OperationTypeInsert || record.Dynamodb == nil {
		return Event{}, false, nil
	}
	item, err := attributevalue.FromDynamoDBStreamsMap(record.Dynamodb.NewImage)
	if err != nil {
		return Event{}, false, fmt.Errorf("failed to convert stream image: %w", err)
	}
	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(item, &tx); err != nil {
		return Event{}, false, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	return TransactionCommitted(&tx), true, nil
}

// DecodeAccounts emits a balanceChanged event whenever a student's balance is modified.
func DecodeAccounts(record streamtypes.Record) (Event, bool, error) {
	if record.EventName != streamtypes.OperationTypeModify || record.Dynamodb == nil {
		return Event{}, false, nil
	}
	item, err := attributevalue.FromDynamoDBStreamsMap(record.Dynamodb.NewImage)
	if err != nil {
		return Event{}, false, fmt.Errorf("failed to convert stream image: %w", err)
	}
	var account models.Account
	if err := attributevalue.UnmarshalMap(item, &account); err != nil {
		return Event{}, false, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	if !account.IsStudent() {
		return Event{}, false, nil
	}
	return BalanceChanged(account.ID, account.CurrentBalance(), account.Version), true, nil
}
