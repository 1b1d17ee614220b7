package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"treesync/internal/bridge"
	"treesync/internal/domain"
	"treesync/internal/domain/models"
	"treesync/internal/domain/repositories"
)

// SyncService applies realtime mutations. Every handler follows the same two
// steps: an idempotent durable write, then a broadcast through the fan-out
// bridge. The broadcast also runs when the write was a no-op (the record
// already existed) so peers that missed an earlier event still converge, but
// it is skipped when the write fails.
type SyncService struct {
	users   repositories.UserRepository
	folders repositories.FolderRepository
	items   repositories.ItemRepository
	kinds   repositories.KindResolver
	bridge  bridge.Bridge
	logger  *slog.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(
	users repositories.UserRepository,
	folders repositories.FolderRepository,
	items repositories.ItemRepository,
	kinds repositories.KindResolver,
	b bridge.Bridge,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		users:   users,
		folders: folders,
		items:   items,
		kinds:   kinds,
		bridge:  b,
		logger:  logger,
	}
}

// Join lazily creates the user record. Connection registration is the
// transport's job; repeated joins are harmless.
func (s *SyncService) Join(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if _, err := s.users.Create(ctx, userID); err != nil {
		return fmt.Errorf("join %s: %w", userID, err)
	}

	s.logger.Info("user joined", "user_id", userID)
	return nil
}

// AddItem creates the item unless it already exists, then broadcasts.
func (s *SyncService) AddItem(ctx context.Context, userID string, item models.Item) error {
	stored := item
	stored.UserID = userID

	if _, err := s.items.GetByID(ctx, userID, item.ID); err == nil {
		s.logger.Debug("item already exists, skipping create", "item_id", item.ID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	} else if err := s.items.Create(ctx, &stored); err != nil {
		// A concurrent create from another connection is still a success
		// for convergence purposes.
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}

	return s.bridge.Publish(ctx, userID, models.ItemAddedEvent{
		Type: models.MessageAddItem,
		Item: item,
	})
}

// AddFolder creates the folder unless it already exists, then broadcasts.
func (s *SyncService) AddFolder(ctx context.Context, userID string, folder models.Folder) error {
	stored := folder
	stored.UserID = userID

	if _, err := s.folders.GetByID(ctx, userID, folder.ID); err == nil {
		s.logger.Debug("folder already exists, skipping create", "folder_id", folder.ID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	} else if err := s.folders.Create(ctx, &stored); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}

	return s.bridge.Publish(ctx, userID, models.FolderAddedEvent{
		Type:   models.MessageAddFolder,
		Folder: folder,
	})
}

// MoveItem reparents a folder or item. The message does not say which kind
// the id names, so the store resolves it; folders win when both are probed.
// The broadcast goes out even when the id matched nothing - clients treat
// moves as best-effort.
func (s *SyncService) MoveItem(ctx context.Context, userID, itemID string, folderID *string, newOrder float64) error {
	kind, err := s.kinds.KindOf(ctx, userID, itemID)
	if err != nil {
		return err
	}

	switch kind {
	case repositories.KindFolder:
		if err := s.folders.UpdatePlacement(ctx, userID, itemID, folderID, newOrder); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	case repositories.KindItem:
		if err := s.items.UpdatePlacement(ctx, userID, itemID, folderID, newOrder); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	default:
		s.logger.Debug("move for unknown id, broadcasting anyway", "id", itemID)
	}

	return s.bridge.Publish(ctx, userID, models.ItemMovedEvent{
		Type:     models.MessageMoveItem,
		ItemID:   itemID,
		FolderID: folderID,
		NewOrder: newOrder,
	})
}

// EditItem updates the collapsed flag. Only folders carry it; an id that
// names an item or nothing is left untouched but the event still goes out.
func (s *SyncService) EditItem(ctx context.Context, userID, itemID string, collapsed bool) error {
	if err := s.folders.UpdateCollapsed(ctx, userID, itemID, collapsed); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Debug("collapse edit for non-folder id, broadcasting anyway", "id", itemID)
	}

	return s.bridge.Publish(ctx, userID, models.ItemEditedEvent{
		Type:      models.MessageEditItem,
		ItemID:    itemID,
		Collapsed: collapsed,
	})
}
