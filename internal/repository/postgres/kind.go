package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"treesync/internal/domain/repositories"
)

// PostgresKindResolver implements the KindResolver interface with a single
// round trip: one UNION probe over both tables.
type PostgresKindResolver struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewKindResolver creates a new kind resolver
func NewKindResolver(config *RepositoryConfig) repositories.KindResolver {
	return &PostgresKindResolver{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// KindOf reports whether id names a folder, an item, or nothing for the user.
// Ids are unique across both kinds within a user's data set, so the first row
// wins.
func (r *PostgresKindResolver) KindOf(ctx context.Context, userID, id string) (repositories.Kind, error) {
	query := fmt.Sprintf(`
		SELECT 'folder' AS kind FROM %s WHERE id = $1 AND user_id = $2
		UNION ALL
		SELECT 'item' FROM %s WHERE id = $1 AND user_id = $2
		LIMIT 1
	`, r.tables.Folders, r.tables.Items)

	var kind string
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(&kind)
	if err != nil {
		if isPgNoRowsError(err) {
			return repositories.KindNotFound, nil
		}
		return repositories.KindNotFound, fmt.Errorf("resolve kind: %w", err)
	}

	if kind == "folder" {
		return repositories.KindFolder, nil
	}
	return repositories.KindItem, nil
}
