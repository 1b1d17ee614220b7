package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"treesync/internal/domain"
	"treesync/internal/domain/models"
	"treesync/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, name, parent_id, sort_order, collapsed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Folders)

	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		folder.ID,
		folder.UserID,
		folder.Name,
		folder.ParentID,
		folder.Order,
		folder.Collapsed,
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by id, scoped to the user
func (r *PostgresFolderRepository) GetByID(ctx context.Context, userID, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, parent_id, sort_order, collapsed, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Folders)

	folder, err := scanFolder(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// ListRoots lists the user's root folders
func (r *PostgresFolderRepository) ListRoots(ctx context.Context, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, parent_id, sort_order, collapsed, created_at, updated_at
		FROM %s
		WHERE user_id = $1 AND parent_id IS NULL
		ORDER BY sort_order ASC, created_at ASC
	`, r.tables.Folders)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list root folders: %w", err)
	}
	defer rows.Close()

	return collectFolders(rows)
}

// ListChildren lists immediate sub-folders of a folder
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, userID, folderID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, parent_id, sort_order, collapsed, created_at, updated_at
		FROM %s
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY sort_order ASC, created_at ASC
	`, r.tables.Folders)

	rows, err := r.pool.Query(ctx, query, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list sub-folders: %w", err)
	}
	defer rows.Close()

	return collectFolders(rows)
}

// UpdatePlacement moves a folder to a new parent and sibling order
func (r *PostgresFolderRepository) UpdatePlacement(ctx context.Context, userID, id string, parentID *string, order float64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, sort_order = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`, r.tables.Folders)

	result, err := r.pool.Exec(ctx, query, parentID, order, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("move folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateCollapsed sets the collapsed flag
func (r *PostgresFolderRepository) UpdateCollapsed(ctx context.Context, userID, id string, collapsed bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET collapsed = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`, r.tables.Folders)

	result, err := r.pool.Exec(ctx, query, collapsed, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("update folder collapsed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.ParentID,
		&folder.Order,
		&folder.Collapsed,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	folders := make([]models.Folder, 0)
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}
