package ws

import (
	"log/slog"
	"sync"
)

// Conn is the send side of one live client connection. Sessions implement it;
// tests substitute fakes.
type Conn interface {
	// Send queues a client-facing payload for delivery on this connection.
	Send(payload []byte) error
}

// Registry tracks the live connections per user identity on this process.
// A user may hold several connections at once (devices, tabs). This state is
// process-local and rebuilt as clients reconnect; it says nothing about
// connections held by other instances.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]map[Conn]struct{}
	logger *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]map[Conn]struct{}),
		logger: logger,
	}
}

// Register adds the connection to the user's set. Set semantics: registering
// the same connection twice is a no-op, so repeated joins never cause
// duplicate delivery.
func (r *Registry) Register(userID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[userID]
	if !ok {
		room = make(map[Conn]struct{})
		r.rooms[userID] = room
	}
	room[conn] = struct{}{}
}

// Unregister removes the connection wherever it appears. A connection maps to
// one user after join, but the scan is deliberate: a connection that never
// joined, or joined under several identities through a buggy client, must not
// leak. Users whose set drains are removed entirely so memory stays bounded
// by active users.
func (r *Registry) Unregister(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, room := range r.rooms {
		if _, ok := room[conn]; ok {
			delete(room, conn)
			if len(room) == 0 {
				delete(r.rooms, userID)
			}
		}
	}
}

// ConnectionsFor returns a snapshot of the user's live connections.
func (r *Registry) ConnectionsFor(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[userID]
	conns := make([]Conn, 0, len(room))
	for conn := range room {
		conns = append(conns, conn)
	}
	return conns
}

// Broadcast pushes a payload to every local connection of the user. Send
// failures are logged per connection and do not stop the fan-out; a dead
// connection cleans itself up when its session exits.
func (r *Registry) Broadcast(userID string, payload []byte) {
	for _, conn := range r.ConnectionsFor(userID) {
		if err := conn.Send(payload); err != nil {
			r.logger.Warn("broadcast send failed",
				"user_id", userID,
				"error", err,
			)
		}
	}
}
