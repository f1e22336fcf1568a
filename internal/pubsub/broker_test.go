package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx := context.Background()
	first := b.Subscribe(ctx)
	second := b.Subscribe(ctx)

	b.Publish("hello")

	assert.Equal(t, "hello", <-first)
	assert.Equal(t, "hello", <-second)
}

func TestBroker_SubscriptionEndsWithContext(t *testing.T) {
	b := NewBroker[int]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	require.Equal(t, 1, b.SubscriberCount())

	cancel()

	// The cleanup goroutine races with us; wait for the channel to close.
	select {
	case _, open := <-ch:
		assert.False(t, open, "channel closes on cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("subscription channel never closed")
	}

	assert.Eventually(t, func() bool {
		return b.SubscriberCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBroker_FullSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBrokerWithBuffer[int](1)
	defer b.Close()

	ch := b.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Publish(1)
		b.Publish(2) // buffer full: dropped, not blocked on
		b.Publish(3)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	assert.Equal(t, 1, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("expected overflow to be dropped, got %d", v)
	default:
	}
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker[string]()
	ch := b.Subscribe(context.Background())

	b.Close()
	b.Close() // idempotent

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, b.SubscriberCount())

	// Late operations are no-ops, not panics.
	b.Publish("into the void")
	late := b.Subscribe(context.Background())
	_, open = <-late
	assert.False(t, open)
}

func TestBroker_CancelAfterCloseIsHarmless(t *testing.T) {
	b := NewBroker[int]()
	ctx, cancel := context.WithCancel(context.Background())
	_ = b.Subscribe(ctx)

	b.Close()
	cancel()

	// Give the cleanup goroutine a chance to run against the closed broker.
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, b.SubscriberCount())
}

func TestBroker_ConcurrentPublishAndSubscribe(t *testing.T) {
	b := NewBrokerWithBuffer[int](256)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := b.Subscribe(ctx)
			for range 10 {
				select {
				case <-ch:
				case <-time.After(time.Second):
					return
				}
			}
		}()
	}

	for i := range 500 {
		b.Publish(i)
	}

	cancel()
	wg.Wait()
}
