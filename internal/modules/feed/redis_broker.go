package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wanderlust/internal/modules/conversation"
	"wanderlust/internal/observability"
)

// RedisBroker publishes changes on a Redis pub/sub channel so that any process
// subscribed to the same channel sees the transcript move.
type RedisBroker struct {
	rdb     *redis.Client
	channel string
	buffer  int
}

func NewRedisBroker(rdb *redis.Client, channel string) *RedisBroker {
	return &RedisBroker{rdb: rdb, channel: channel, buffer: DefaultBuffer}
}

func (b *RedisBroker) Notify(ctx context.Context, change conversation.Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan conversation.Change, error) {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	// Wait for the subscription confirmation so no publish after this call is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	out := make(chan conversation.Change, b.buffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		log := observability.LoggerFromContext(ctx)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var change conversation.Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					log.Warn("failed to unmarshal change", "error", err)
					continue
				}
				select {
				case out <- change:
				default:
					log.Warn("feed subscriber full, dropping change", "type", change.Type)
				}
			}
		}
	}()
	return out, nil
}
