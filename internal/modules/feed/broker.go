// Package feed fans transcript changes out to live subscribers (the websocket shell).
package feed

import (
	"context"
	"sync"

	"wanderlust/internal/modules/conversation"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 32

// Broker is a conversation.Notifier that can also be subscribed to.
type Broker interface {
	conversation.Notifier
	// Subscribe returns a channel of changes that is closed when ctx is done.
	Subscribe(ctx context.Context) (<-chan conversation.Change, error)
}

// LocalBroker is an in-process Broker. A subscriber whose buffer is full misses
// the change instead of blocking the controller.
type LocalBroker struct {
	mu      sync.Mutex
	subs    map[chan conversation.Change]struct{}
	buffer  int
	dropped int
}

func NewLocalBroker(buffer int) *LocalBroker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &LocalBroker{
		subs:   make(map[chan conversation.Change]struct{}),
		buffer: buffer,
	}
}

func (b *LocalBroker) Notify(_ context.Context, change conversation.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- change:
		default:
			b.dropped++
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context) (<-chan conversation.Change, error) {
	ch := make(chan conversation.Change, b.buffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}

// Subscribers reports the number of live subscriptions.
func (b *LocalBroker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (b *LocalBroker) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
