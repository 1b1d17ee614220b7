package repositories

import (
	"context"

	"treesync/internal/domain/models"
)

// Kind classifies what record kind an id refers to within one user's data set.
// Ids are unique across both kinds per user, so a single probe is enough.
type Kind int

const (
	KindNotFound Kind = iota
	KindFolder
	KindItem
)

// UserRepository defines data access operations for users
type UserRepository interface {
	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Create creates a user record
	Create(ctx context.Context, id string) (*models.User, error)
}

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by id, scoped to the user
	GetByID(ctx context.Context, userID, id string) (*models.Folder, error)

	// ListRoots lists the user's root folders (parent is null)
	ListRoots(ctx context.Context, userID string) ([]models.Folder, error)

	// ListChildren lists immediate sub-folders of a folder
	ListChildren(ctx context.Context, userID, folderID string) ([]models.Folder, error)

	// UpdatePlacement moves a folder to a new parent and sibling order.
	// parentID == nil places it at root level.
	UpdatePlacement(ctx context.Context, userID, id string, parentID *string, order float64) error

	// UpdateCollapsed sets the collapsed flag
	UpdateCollapsed(ctx context.Context, userID, id string, collapsed bool) error
}

// ItemRepository defines data access operations for items
type ItemRepository interface {
	// Create creates a new item
	Create(ctx context.Context, item *models.Item) error

	// GetByID retrieves an item by id, scoped to the user
	GetByID(ctx context.Context, userID, id string) (*models.Item, error)

	// ListStandalone lists the user's root-level items (parent is null)
	ListStandalone(ctx context.Context, userID string) ([]models.Item, error)

	// ListInFolder lists the items directly inside a folder
	ListInFolder(ctx context.Context, userID, folderID string) ([]models.Item, error)

	// UpdatePlacement moves an item to a new parent folder and sibling order.
	// parentID == nil places it at root level.
	UpdatePlacement(ctx context.Context, userID, id string, parentID *string, order float64) error
}

// KindResolver answers whether an id belongs to a folder or an item. It
// centralizes the probing policy so callers never race two lookups.
type KindResolver interface {
	KindOf(ctx context.Context, userID, id string) (Kind, error)
}
