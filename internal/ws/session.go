package ws

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to flush one message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong before the peer is considered gone.
	pongWait = 60 * time.Second

	// Ping interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size.
	maxMessageSize = 64 << 10

	// Outbound queue depth per connection.
	sendBufferSize = 256
)

// Session is one live websocket connection. Frames read from the socket are
// handled strictly in arrival order; outbound pushes go through a buffered
// queue drained by a single writer goroutine, since the underlying connection
// permits only one concurrent writer.
type Session struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewSession wraps an upgraded connection
func NewSession(conn *websocket.Conn, logger *slog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: logger.With("conn_id", id),
		done:   make(chan struct{}),
	}
}

// ID returns the server-assigned connection id, used only for logging.
func (s *Session) ID() string { return s.id }

// Send queues a payload for delivery. It never blocks the caller: a session
// whose queue is full is too far behind to be worth stalling the fan-out for,
// so the payload is dropped and an error returned.
func (s *Session) Send(payload []byte) error {
	select {
	case <-s.done:
		return errors.New("session closed")
	default:
	}

	select {
	case s.send <- payload:
		return nil
	default:
		return errors.New("send queue full")
	}
}

// Run services the connection until it closes: the write pump in a goroutine,
// the read loop on the calling goroutine. On return the connection has been
// unregistered and closed. Mutations already dispatched before the close
// still run to completion; only future reads stop.
func (s *Session) Run(ctx context.Context, router *Router, registry *Registry) {
	go s.writePump()
	s.readLoop(ctx, router)

	registry.Unregister(s)
	s.close()
	s.logger.Info("client disconnected")
}

func (s *Session) readLoop(ctx context.Context, router *Router) {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("read failed", "error", err)
			}
			return
		}
		router.Dispatch(ctx, s, raw)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				// A write deadline on a websocket is unrecoverable; drop the
				// connection and let the read loop observe the close.
				s.conn.Close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.conn.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}
