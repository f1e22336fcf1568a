// Package pubsub fans typed values out to any number of subscribers.
// Publishing never blocks: a subscriber that falls behind loses values
// rather than stalling the publisher.
package pubsub

import (
	"context"
	"sync"
)

const defaultBufferSize = 64

// Broker delivers published values to every live subscription. The zero
// value is not usable; create brokers with NewBroker.
type Broker[T any] struct {
	mu     sync.RWMutex
	subs   map[uint64]chan T
	nextID uint64
	buf    int
	closed bool
}

// NewBroker creates a broker whose subscription channels buffer the default
// number of values (64).
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker with a custom per-subscriber buffer.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs: make(map[uint64]chan T),
		buf:  size,
	}
}

// Subscribe registers a subscription that lives until ctx is cancelled or
// the broker closes, whichever comes first; either way the returned channel
// is closed. Subscribing to a closed broker yields an already closed
// channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan T {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, b.buf)
	if b.closed {
		close(ch)
		return ch
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	go func() {
		<-ctx.Done()
		b.drop(id)
	}()

	return ch
}

func (b *Broker[T]) drop(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return // Close already tore the subscription down
	}
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers v to every subscription with buffer room. Full
// subscriptions are skipped, never waited on. Publishing to a closed broker
// is a no-op.
func (b *Broker[T]) Publish(v T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// Close shuts the broker down and closes every subscription channel. Safe
// to call more than once.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// SubscriberCount reports the number of live subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
