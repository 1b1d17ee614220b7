package service

import (
	"context"
	"errors"
	"log/slog"

	"treesync/internal/domain"
	"treesync/internal/domain/models"
	"treesync/internal/domain/repositories"
)

// TreeService reconstructs a user's full nested hierarchy from the flat
// folder/item rows.
type TreeService struct {
	folders repositories.FolderRepository
	items   repositories.ItemRepository
	logger  *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folders repositories.FolderRepository,
	items repositories.ItemRepository,
	logger *slog.Logger,
) *TreeService {
	return &TreeService{
		folders: folders,
		items:   items,
		logger:  logger,
	}
}

// Assemble returns the user's top-level nodes: root folders (recursively
// resolved) followed by standalone items. Within a folder, children are
// sub-folder nodes followed by direct item nodes. Sibling order keys are
// carried through unmodified for client-side sorting.
func (s *TreeService) Assemble(ctx context.Context, userID string) ([]*models.TreeNode, error) {
	rootFolders, err := s.folders.ListRoots(ctx, userID)
	if err != nil {
		return nil, err
	}

	standalone, err := s.items.ListStandalone(ctx, userID)
	if err != nil {
		return nil, err
	}

	nodes := make([]*models.TreeNode, 0, len(rootFolders)+len(standalone))
	visited := make(map[string]bool)

	for _, folder := range rootFolders {
		node, err := s.buildFolder(ctx, userID, folder, visited)
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}

	for _, item := range standalone {
		nodes = append(nodes, models.ItemNode(item))
	}

	return nodes, nil
}

// buildFolder resolves one folder and its subtree. The visited set tracks the
// current descent path: the parent relation is client-controlled and nothing
// enforces acyclicity at write time, so a folder id seen twice on one path
// means a cycle. The offending branch is truncated rather than recursed into.
func (s *TreeService) buildFolder(ctx context.Context, userID string, folder models.Folder, visited map[string]bool) (*models.TreeNode, error) {
	if visited[folder.ID] {
		s.logger.Warn("folder cycle detected, truncating branch",
			"user_id", userID,
			"folder_id", folder.ID,
		)
		return nil, nil
	}
	visited[folder.ID] = true
	defer delete(visited, folder.ID)

	subFolders, err := s.folders.ListChildren(ctx, userID, folder.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Folder vanished mid-descent (concurrent removal); drop it.
			return nil, nil
		}
		return nil, err
	}

	directItems, err := s.items.ListInFolder(ctx, userID, folder.ID)
	if err != nil {
		return nil, err
	}

	node := models.FolderNode(folder)
	for _, sub := range subFolders {
		child, err := s.buildFolder(ctx, userID, sub, visited)
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	for _, item := range directItems {
		node.Children = append(node.Children, models.ItemNode(item))
	}

	return node, nil
}
