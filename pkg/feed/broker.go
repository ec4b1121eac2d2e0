package feed

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 64

// Subscriber is implemented by anything that hands out filtered event streams.
type Subscriber interface {
	Subscribe(ctx context.Context, filter Filter) (<-chan Event, func())
}

// Broker is an in-process publish/subscribe hub.
//
// Publish never blocks. A subscriber whose buffer is full misses the event,
// unless it subscribed with SubscribeLossless.
type Broker struct {
	mu      sync.RWMutex
	subs    map[uint64]*subscription
	nextID  uint64
	buffer  int
	dropped atomic.Uint64
}

type subscription struct {
	ch     chan Event
	done   chan struct{}
	filter Filter
	once   sync.Once

	// Lossless subscriptions queue without bound; pump owns ch.
	lossless bool
	mu       sync.Mutex
	pending  []Event
	wake     chan struct{}
}

func (s *subscription) enqueue(event Event) {
	s.mu.Lock()
	s.pending = append(s.pending, event)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pump forwards queued events in publish order and closes ch once the
// subscription ends.
func (s *subscription) pump() {
	defer close(s.ch)
	for {
		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, e := range batch {
			select {
			case s.ch <- e:
			case <-s.done:
				return
			}
		}

		select {
		case <-s.wake:
		case <-s.done:
			return
		}
	}
}

// NewBroker creates a Broker. A buffer <= 0 uses DefaultBuffer.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{
		subs:   make(map[uint64]*subscription),
		buffer: buffer,
	}
}

var (
	_ Publisher  = (*Broker)(nil)
	_ Subscriber = (*Broker)(nil)
)

// Publish fans the event out to every matching subscriber.
func (b *Broker) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subs {
		if !sub.filter.Matches(event) {
			continue
		}
		if sub.lossless {
			sub.enqueue(event)
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
			slog.Log(ctx, slog.LevelDebug, "dropping event for slow subscriber", "subscriber", id, "type", event.Type)
		}
	}
	return nil
}

// Subscribe registers a subscriber. The returned function unsubscribes and closes
// the channel; cancelling ctx does the same.
func (b *Broker) Subscribe(ctx context.Context, filter Filter) (<-chan Event, func()) {
	return b.subscribe(ctx, &subscription{
		ch:     make(chan Event, b.buffer),
		done:   make(chan struct{}),
		filter: filter,
	})
}

// SubscribeLossless registers a subscriber that receives every matching event.
// Events wait in an unbounded queue while the reader is behind, so Publish
// still never blocks.
func (b *Broker) SubscribeLossless(ctx context.Context, filter Filter) (<-chan Event, func()) {
	sub := &subscription{
		ch:       make(chan Event),
		done:     make(chan struct{}),
		filter:   filter,
		lossless: true,
		wake:     make(chan struct{}, 1),
	}
	go sub.pump()
	return b.subscribe(ctx, sub)
}

func (b *Broker) subscribe(ctx context.Context, sub *subscription) (<-chan Event, func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			if !sub.lossless {
				close(sub.ch)
			}
			close(sub.done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-sub.done:
		}
	}()

	return sub.ch, cancel
}

// Subscribers returns the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *Broker) Dropped() uint64 {
	return b.dropped.Load()
}
