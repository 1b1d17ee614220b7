package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests to websocket sessions.
type Handler struct {
	upgrader websocket.Upgrader
	router   *Router
	registry *Registry
	logger   *slog.Logger
}

// NewHandler creates a new websocket upgrade handler
func NewHandler(router *Router, registry *Registry, logger *slog.Logger) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Identity is client-supplied and there are no cookies to
			// protect, so cross-origin upgrades are allowed.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		router:   router,
		registry: registry,
		logger:   logger,
	}
}

// ServeWS upgrades the request and services the session until disconnect.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	session := NewSession(conn, h.logger)
	h.logger.Info("client connected", "conn_id", session.ID())
	session.Run(r.Context(), h.router, h.registry)
}
