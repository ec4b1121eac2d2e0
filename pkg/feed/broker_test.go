package feed

import (
	"context"
	"testing"
	"time"

	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestBrokerFanOut(t *testing.T) {
	ctx := context.Background()
	b := NewBroker(4)

	all, cancelAll := b.Subscribe(ctx, Filter{})
	defer cancelAll()
	stall, cancelStall := b.Subscribe(ctx, Filter{StallID: "st-1"})
	defer cancelStall()
	student, cancelStudent := b.Subscribe(ctx, Filter{StudentID: "s-2"})
	defer cancelStudent()

	tx := &models.Transaction{ID: "tx-1", StudentID: "s-1", StallID: "st-1"}
	require.NoError(t, b.Publish(ctx, TransactionCommitted(tx)))

	assert.Equal(t, EventTransactionCommitted, receive(t, all).Type)
	assert.Equal(t, tx, receive(t, stall).Payload)
	select {
	case e := <-student:
		t.Fatalf("unexpected event %v", e)
	default:
	}
}

func TestBrokerNeverBlocksOnSlowSubscriber(t *testing.T) {
	ctx := context.Background()
	b := NewBroker(1)
	_, cancel := b.Subscribe(ctx, Filter{})
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = b.Publish(ctx, BalanceChanged("s-1", money.FromInt(int64(i)), int64(i)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked")
	}
	assert.Equal(t, uint64(9), b.Dropped())
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker(1)

	ch, cancel := b.Subscribe(context.Background(), Filter{})
	assert.Equal(t, 1, b.Subscribers())
	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers())

	ctx, stop := context.WithCancel(context.Background())
	ch, _ = b.Subscribe(ctx, Filter{})
	stop()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("context cancel did not close the subscription")
	}
}

func TestFilterMatches(t *testing.T) {
	recharge := RechargeApplied(&models.Recharge{ID: "r-1", StudentID: "s-1"})

	assert.True(t, Filter{}.Matches(recharge))
	assert.True(t, Filter{StudentID: "s-1"}.Matches(recharge))
	assert.False(t, Filter{StallID: "st-1"}.Matches(recharge))
	assert.True(t, Filter{StudentID: "s-1"}.Matches(BalanceChanged("s-1", money.Zero, 1)))
}

func TestBrokerLosslessSubscriber(t *testing.T) {
	ctx := context.Background()
	b := NewBroker(1)

	events, cancel := b.SubscribeLossless(ctx, Filter{StallID: "st-1"})

	for i := 0; i < 10; i++ {
		tx := &models.Transaction{ID: string(rune('a' + i)), StudentID: "s-1", StallID: "st-1"}
		require.NoError(t, b.Publish(ctx, TransactionCommitted(tx)))
	}
	require.NoError(t, b.Publish(ctx, TransactionCommitted(&models.Transaction{ID: "other", StallID: "st-2"})))

	for i := 0; i < 10; i++ {
		e := receive(t, events)
		assert.Equal(t, string(rune('a'+i)), e.Payload.(*models.Transaction).ID)
	}
	assert.Zero(t, b.Dropped())

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-events
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, b.Subscribers())
}
