// Package repository provides data persistence implementations for
// authentication entities, with PostgreSQL and MySQL variants.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
	"github.com/allisson/medgate/internal/database"
	apperrors "github.com/allisson/medgate/internal/errors"
)

// PostgreSQLUserRepository implements user persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new user. Returns ErrUsernameTaken on a unique
// constraint violation.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (id, username, secret_hash, role, is_active, created_at) 
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.SecretHash,
		user.Role,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return authDomain.ErrUsernameTaken
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Get retrieves a user by ID. Returns ErrUserNotFound if the user doesn't exist.
func (p *PostgreSQLUserRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, username, secret_hash, role, is_active, created_at 
			  FROM users WHERE id = $1`

	var user authDomain.User

	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.SecretHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	return &user, nil
}

// GetByUsername retrieves a user by username. Returns ErrUserNotFound if absent.
func (p *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, username, secret_hash, role, is_active, created_at 
			  FROM users WHERE username = $1`

	var user authDomain.User

	err := querier.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.SecretHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by username")
	}

	return &user, nil
}

// UpdateSecretHash replaces the stored secret hash for a user.
// Returns ErrUserNotFound if no row was updated.
func (p *PostgreSQLUserRepository) UpdateSecretHash(ctx context.Context, userID uuid.UUID, secretHash string) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE users SET secret_hash = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, secretHash, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user secret hash")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return authDomain.ErrUserNotFound
	}

	return nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// NewPostgreSQLUserRepository creates a new PostgreSQL user repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}
