package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"treesync/internal/config"
)

// MessageType is the discriminant carried in the type field of every envelope
// on the realtime channel, in both directions.
type MessageType string

const (
	MessageJoin      MessageType = "join"
	MessageAddItem   MessageType = "add_item"
	MessageAddFolder MessageType = "add_folder"
	MessageMoveItem  MessageType = "move_item"
	MessageEditItem  MessageType = "edit_item"
)

// Envelope is the first-pass decode of an incoming frame: just enough to pick
// the typed payload to unmarshal next.
type Envelope struct {
	Type MessageType `json:"type"`
}

// JoinMessage registers the sending connection under a user identity and
// lazily creates the user record.
type JoinMessage struct {
	UserID string `json:"userId"`
}

func (m JoinMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.UserID, validation.Required, validation.Length(1, config.MaxIDLength)),
	)
}

// AddItemMessage carries an idempotent item create.
type AddItemMessage struct {
	UserID string `json:"userId"`
	Item   Item   `json:"item"`
}

func (m AddItemMessage) Validate() error {
	if err := validation.ValidateStruct(&m,
		validation.Field(&m.UserID, validation.Required, validation.Length(1, config.MaxIDLength)),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&m.Item,
		validation.Field(&m.Item.ID, validation.Required, validation.Length(1, config.MaxIDLength)),
		validation.Field(&m.Item.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
		validation.Field(&m.Item.Icon, validation.Length(0, config.MaxIconLength)),
	)
}

// AddFolderMessage carries an idempotent folder create.
type AddFolderMessage struct {
	UserID string `json:"userId"`
	Folder Folder `json:"folder"`
}

func (m AddFolderMessage) Validate() error {
	if err := validation.ValidateStruct(&m,
		validation.Field(&m.UserID, validation.Required, validation.Length(1, config.MaxIDLength)),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&m.Folder,
		validation.Field(&m.Folder.ID, validation.Required, validation.Length(1, config.MaxIDLength)),
		validation.Field(&m.Folder.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
	)
}

// MoveItemMessage reparents a folder or item. The id does not state its kind;
// the handler resolves it. A missing or null folderId means root level.
type MoveItemMessage struct {
	UserID   string  `json:"userId"`
	ItemID   string  `json:"itemId"`
	FolderID *string `json:"folderId"`
	NewOrder float64 `json:"newOrder"`
}

func (m MoveItemMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.UserID, validation.Required, validation.Length(1, config.MaxIDLength)),
		validation.Field(&m.ItemID, validation.Required, validation.Length(1, config.MaxIDLength)),
	)
}

// EditItemMessage toggles the collapsed flag. Only meaningful for folders.
type EditItemMessage struct {
	UserID    string `json:"userId"`
	ItemID    string `json:"itemId"`
	Collapsed bool   `json:"collapsed"`
}

func (m EditItemMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.UserID, validation.Required, validation.Length(1, config.MaxIDLength)),
		validation.Field(&m.ItemID, validation.Required, validation.Length(1, config.MaxIDLength)),
	)
}

// Outbound events pushed to clients. Same envelope shapes minus the top-level
// userId: delivery is already scoped to the user's connections.

type ItemAddedEvent struct {
	Type MessageType `json:"type"`
	Item Item        `json:"item"`
}

type FolderAddedEvent struct {
	Type   MessageType `json:"type"`
	Folder Folder      `json:"folder"`
}

type ItemMovedEvent struct {
	Type     MessageType `json:"type"`
	ItemID   string      `json:"itemId"`
	FolderID *string     `json:"folderId"`
	NewOrder float64     `json:"newOrder"`
}

type ItemEditedEvent struct {
	Type      MessageType `json:"type"`
	ItemID    string      `json:"itemId"`
	Collapsed bool        `json:"collapsed"`
}
