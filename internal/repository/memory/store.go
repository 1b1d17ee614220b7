// Package memory provides an in-memory implementation of the store contracts.
// It backs unit tests that exercise the sync and tree services without a live
// database. Listing order is sort_order ascending with ties broken by arrival,
// matching the SQL repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"treesync/internal/domain"
	"treesync/internal/domain/models"
	"treesync/internal/domain/repositories"
)

// Store implements UserRepository, FolderRepository, ItemRepository and
// KindResolver over plain slices.
type Store struct {
	mu      sync.RWMutex
	users   map[string]models.User
	folders []models.Folder
	items   []models.Item

	writeErr error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users: make(map[string]models.User),
	}
}

// FailWrites makes every subsequent write return err. Pass nil to heal.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// GetByID retrieves a user by id
func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

// Create creates a user record; creating an existing user is a no-op.
func (s *Store) Create(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	u := models.User{ID: id, CreatedAt: time.Now()}
	s.users[id] = u
	return &u, nil
}

// Folders returns a FolderRepository view of the store
func (s *Store) Folders() repositories.FolderRepository { return (*folderStore)(s) }

// Items returns an ItemRepository view of the store
func (s *Store) Items() repositories.ItemRepository { return (*itemStore)(s) }

// KindOf reports whether id names a folder, an item, or nothing for the user
func (s *Store) KindOf(ctx context.Context, userID, id string) (repositories.Kind, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.folders {
		if f.ID == id && f.UserID == userID {
			return repositories.KindFolder, nil
		}
	}
	for _, it := range s.items {
		if it.ID == id && it.UserID == userID {
			return repositories.KindItem, nil
		}
	}
	return repositories.KindNotFound, nil
}

type folderStore Store

func (s *folderStore) Create(ctx context.Context, folder *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	for _, f := range s.folders {
		if f.ID == folder.ID && f.UserID == folder.UserID {
			return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrConflict)
		}
	}
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now
	s.folders = append(s.folders, *folder)
	return nil
}

func (s *folderStore) GetByID(ctx context.Context, userID, id string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.folders {
		if f.ID == id && f.UserID == userID {
			copied := f
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
}

func (s *folderStore) ListRoots(ctx context.Context, userID string) ([]models.Folder, error) {
	return s.list(userID, nil)
}

func (s *folderStore) ListChildren(ctx context.Context, userID, folderID string) ([]models.Folder, error) {
	return s.list(userID, &folderID)
}

func (s *folderStore) list(userID string, parentID *string) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Folder, 0)
	for _, f := range s.folders {
		if f.UserID != userID {
			continue
		}
		if sameParent(f.ParentID, parentID) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *folderStore) UpdatePlacement(ctx context.Context, userID, id string, parentID *string, order float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	for i := range s.folders {
		if s.folders[i].ID == id && s.folders[i].UserID == userID {
			s.folders[i].ParentID = parentID
			s.folders[i].Order = order
			s.folders[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
}

func (s *folderStore) UpdateCollapsed(ctx context.Context, userID, id string, collapsed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	for i := range s.folders {
		if s.folders[i].ID == id && s.folders[i].UserID == userID {
			s.folders[i].Collapsed = collapsed
			s.folders[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
}

type itemStore Store

func (s *itemStore) Create(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	for _, it := range s.items {
		if it.ID == item.ID && it.UserID == item.UserID {
			return fmt.Errorf("item %s: %w", item.ID, domain.ErrConflict)
		}
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items = append(s.items, *item)
	return nil
}

func (s *itemStore) GetByID(ctx context.Context, userID, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id && it.UserID == userID {
			copied := it
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
}

func (s *itemStore) ListStandalone(ctx context.Context, userID string) ([]models.Item, error) {
	return s.list(userID, nil)
}

func (s *itemStore) ListInFolder(ctx context.Context, userID, folderID string) ([]models.Item, error) {
	return s.list(userID, &folderID)
}

func (s *itemStore) list(userID string, parentID *string) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Item, 0)
	for _, it := range s.items {
		if it.UserID != userID {
			continue
		}
		if sameParent(it.ParentID, parentID) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *itemStore) UpdatePlacement(ctx context.Context, userID, id string, parentID *string, order float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			s.items[i].ParentID = parentID
			s.items[i].Order = order
			s.items[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

var (
	_ repositories.UserRepository = (*Store)(nil)
	_ repositories.KindResolver   = (*Store)(nil)
)
