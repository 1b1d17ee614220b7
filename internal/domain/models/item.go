package models

import "time"

// Item is a leaf entry. ParentID == nil means the item sits at root level
// outside any folder.
type Item struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId,omitempty" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	ParentID  *string   `json:"folder_id" db:"parent_id"`
	Order     float64   `json:"order" db:"sort_order"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}
