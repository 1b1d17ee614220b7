package models

import "time"

// Folder is one node of a user's forest. ParentID == nil means root level.
// JSON uses folder_id for the parent reference, matching the wire contract.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId,omitempty" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	ParentID  *string   `json:"folder_id" db:"parent_id"`
	Order     float64   `json:"order" db:"sort_order"`
	Collapsed bool      `json:"collapsed" db:"collapsed"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}
