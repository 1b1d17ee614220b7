// Package bridge carries mutation events between server instances. Every
// instance publishes to and subscribes on one logical channel; delivery is
// fire-and-forget (at-most-once per subscriber, FIFO only within a single
// publisher's writes). Connections are pinned to the instance that accepted
// them, so the bridge is what lets a mutation handled on instance A reach a
// socket held by instance B.
package bridge

import (
	"context"
	"encoding/json"
)

// Event is the envelope carried on the inter-instance channel. Data is the
// client-facing payload, already in its wire shape.
type Event struct {
	UserID string          `json:"userId"`
	Data   json.RawMessage `json:"data"`
}

// Handler consumes events delivered to this instance.
type Handler func(userID string, data []byte)

// Bridge is the publish side plus a subscription hook for the local delivery
// loop.
type Bridge interface {
	// Publish broadcasts a client-facing payload to every instance, keyed by
	// user identity.
	Publish(ctx context.Context, userID string, payload any) error

	// Subscribe registers a handler for events from any instance, including
	// this one, and starts delivery.
	Subscribe(ctx context.Context, handler Handler) error

	// Close stops delivery and releases transport resources.
	Close() error
}
