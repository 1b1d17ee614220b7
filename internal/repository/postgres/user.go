package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"treesync/internal/domain"
	"treesync/internal/domain/models"
	"treesync/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a user by id
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	var user models.User
	err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// Create creates a user record. Concurrent creates for the same id are
// expected (a user joining from two devices at once), so a duplicate key is
// treated as success.
func (r *PostgresUserRepository) Create(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, r.tables.Users)

	now := time.Now()
	if _, err := r.pool.Exec(ctx, query, id, now); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &models.User{ID: id, CreatedAt: now}, nil
}
