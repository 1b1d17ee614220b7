package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	goredis "github.com/redis/go-redis/v9"
)

// Channel is the single logical topic shared by all instances.
const Channel = "treesync:events"

// RedisBridge implements Bridge over redis pub/sub.
type RedisBridge struct {
	client *goredis.Client
	logger *slog.Logger

	mu     sync.Mutex
	pubsub *goredis.PubSub
	wg     sync.WaitGroup
}

// NewRedisBridge connects to redis and verifies the connection.
func NewRedisBridge(ctx context.Context, redisURL string, logger *slog.Logger) (*RedisBridge, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("bridge: invalid redis URL: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("bridge: redis ping failed: %w", err)
	}

	return &RedisBridge{client: client, logger: logger}, nil
}

// Publish marshals the payload into the inter-instance envelope and fires it
// at the shared channel. No delivery acknowledgment.
func (b *RedisBridge) Publish(ctx context.Context, userID string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("bridge: encode payload: %w", err)
	}

	event, err := json.Marshal(Event{UserID: userID, Data: data})
	if err != nil {
		return fmt.Errorf("bridge: encode event: %w", err)
	}

	if err := b.client.Publish(ctx, Channel, event).Err(); err != nil {
		return fmt.Errorf("bridge: publish: %w", err)
	}

	return nil
}

// Subscribe starts a goroutine that feeds channel messages to the handler.
// Undecodable messages are logged and skipped; they never stop delivery.
func (b *RedisBridge) Subscribe(ctx context.Context, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pubsub := b.client.Subscribe(ctx, Channel)
	// Force the subscription handshake so a bad connection surfaces here
	// instead of as a silent dead subscriber.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("bridge: subscribe: %w", err)
	}
	b.pubsub = pubsub

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("bridge: dropping undecodable event", "error", err)
				continue
			}
			handler(event.UserID, event.Data)
		}
	}()

	return nil
}

// Close stops the subscriber loop and closes the client.
func (b *RedisBridge) Close() error {
	b.mu.Lock()
	if b.pubsub != nil {
		b.pubsub.Close()
		b.pubsub = nil
	}
	b.mu.Unlock()

	b.wg.Wait()
	return b.client.Close()
}

var _ Bridge = (*RedisBridge)(nil)
