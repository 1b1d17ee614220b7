package models

import "time"

// User is created lazily on the first join for an identity. Identity is an
// opaque client-supplied string; there is no authentication layer in front.
type User struct {
	ID        string    `json:"id" db:"id"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}
