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

// PostgresItemRepository implements the ItemRepository interface
type PostgresItemRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewItemRepository creates a new item repository
func NewItemRepository(config *RepositoryConfig) repositories.ItemRepository {
	return &PostgresItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new item
func (r *PostgresItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, name, icon, parent_id, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Items)

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.Name,
		item.Icon,
		item.ParentID,
		item.Order,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("item %s: %w", item.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by id, scoped to the user
func (r *PostgresItemRepository) GetByID(ctx context.Context, userID, id string) (*models.Item, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, icon, parent_id, sort_order, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Items)

	item, err := scanItem(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return item, nil
}

// ListStandalone lists the user's root-level items
func (r *PostgresItemRepository) ListStandalone(ctx context.Context, userID string) ([]models.Item, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, icon, parent_id, sort_order, created_at, updated_at
		FROM %s
		WHERE user_id = $1 AND parent_id IS NULL
		ORDER BY sort_order ASC, created_at ASC
	`, r.tables.Items)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list standalone items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListInFolder lists the items directly inside a folder
func (r *PostgresItemRepository) ListInFolder(ctx context.Context, userID, folderID string) ([]models.Item, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, icon, parent_id, sort_order, created_at, updated_at
		FROM %s
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY sort_order ASC, created_at ASC
	`, r.tables.Items)

	rows, err := r.pool.Query(ctx, query, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list items in folder: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// UpdatePlacement moves an item to a new parent folder and sibling order
func (r *PostgresItemRepository) UpdatePlacement(ctx context.Context, userID, id string, parentID *string, order float64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, sort_order = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`, r.tables.Items)

	result, err := r.pool.Exec(ctx, query, parentID, order, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("move item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var item models.Item
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.Icon,
		&item.ParentID,
		&item.Order,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func collectItems(rows pgx.Rows) ([]models.Item, error) {
	items := make([]models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}
