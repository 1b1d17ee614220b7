package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// LocalBridge implements Bridge in-process. It backs single-instance
// deployments (no REDIS_URL) and tests. Several subscribers may share one
// LocalBridge, which models several instances sharing the redis channel.
type LocalBridge struct {
	mu       sync.RWMutex
	closed   bool
	handlers []Handler
}

// NewLocalBridge creates an in-process bridge
func NewLocalBridge() *LocalBridge {
	return &LocalBridge{}
}

// Publish delivers the payload to every subscriber synchronously, which
// preserves this publisher's ordering the way a single redis channel would.
func (b *LocalBridge) Publish(ctx context.Context, userID string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("bridge: encode payload: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("bridge: closed")
	}
	for _, handler := range b.handlers {
		handler(userID, data)
	}
	return nil
}

// Subscribe registers another delivery target.
func (b *LocalBridge) Subscribe(ctx context.Context, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("bridge: closed")
	}
	b.handlers = append(b.handlers, handler)
	return nil
}

// Close stops delivery.
func (b *LocalBridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = nil
	return nil
}

var _ Bridge = (*LocalBridge)(nil)
