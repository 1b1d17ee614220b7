package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"treesync/internal/domain/models"
	"treesync/internal/service"
)

// Router decodes incoming frames and dispatches them to the mutation
// handlers. One router serves every connection on the instance.
//
// Failure policy: the transport frames per message, so anything wrong with a
// single frame - undecodable JSON, a failed validation, an unknown type, a
// persistence error inside a handler - is logged and dropped while the
// connection stays open. Only transport-level errors end a session.
type Router struct {
	registry *Registry
	sync     *service.SyncService
	logger   *slog.Logger
}

// NewRouter creates a new message router
func NewRouter(registry *Registry, sync *service.SyncService, logger *slog.Logger) *Router {
	return &Router{
		registry: registry,
		sync:     sync,
		logger:   logger,
	}
}

// Dispatch routes one incoming frame. Mutations are not gated on a prior
// join: the user identity rides on every message, so a mutation from a
// connection that never joined still persists and broadcasts - the sender
// just receives no echo until it joins.
func (r *Router) Dispatch(ctx context.Context, conn Conn, raw []byte) {
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.logger.Warn("dropping undecodable frame", "error", err)
		return
	}

	switch env.Type {
	case models.MessageJoin:
		var msg models.JoinMessage
		if !r.decode(raw, &msg) {
			return
		}
		if err := r.sync.Join(ctx, msg.UserID); err != nil {
			r.logger.Error("join failed", "user_id", msg.UserID, "error", err)
			return
		}
		r.registry.Register(msg.UserID, conn)

	case models.MessageAddItem:
		var msg models.AddItemMessage
		if !r.decode(raw, &msg) {
			return
		}
		if err := r.sync.AddItem(ctx, msg.UserID, msg.Item); err != nil {
			r.logger.Error("add_item failed", "user_id", msg.UserID, "item_id", msg.Item.ID, "error", err)
		}

	case models.MessageAddFolder:
		var msg models.AddFolderMessage
		if !r.decode(raw, &msg) {
			return
		}
		if err := r.sync.AddFolder(ctx, msg.UserID, msg.Folder); err != nil {
			r.logger.Error("add_folder failed", "user_id", msg.UserID, "folder_id", msg.Folder.ID, "error", err)
		}

	case models.MessageMoveItem:
		var msg models.MoveItemMessage
		if !r.decode(raw, &msg) {
			return
		}
		if err := r.sync.MoveItem(ctx, msg.UserID, msg.ItemID, msg.FolderID, msg.NewOrder); err != nil {
			r.logger.Error("move_item failed", "user_id", msg.UserID, "id", msg.ItemID, "error", err)
		}

	case models.MessageEditItem:
		var msg models.EditItemMessage
		if !r.decode(raw, &msg) {
			return
		}
		if err := r.sync.EditItem(ctx, msg.UserID, msg.ItemID, msg.Collapsed); err != nil {
			r.logger.Error("edit_item failed", "user_id", msg.UserID, "id", msg.ItemID, "error", err)
		}

	default:
		// Includes the retired delete_item/delete_folder types still sent by
		// old clients. Never a protocol error.
		r.logger.Warn("dropping message with unknown type", "type", env.Type)
	}
}

// decode unmarshals and validates one typed payload. Returns false (after
// logging) when the frame should be dropped.
func (r *Router) decode(raw []byte, msg interface{ Validate() error }) bool {
	if err := json.Unmarshal(raw, msg); err != nil {
		r.logger.Warn("dropping undecodable frame", "error", err)
		return false
	}
	if err := msg.Validate(); err != nil {
		r.logger.Warn("dropping invalid message", "error", err)
		return false
	}
	return true
}
