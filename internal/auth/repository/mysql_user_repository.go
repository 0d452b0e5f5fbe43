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

// MySQLUserRepository implements user persistence for MySQL.
// UUIDs are stored as BINARY(16) columns.
type MySQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new user. Returns ErrUsernameTaken on a unique
// constraint violation.
func (m *MySQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO users (id, username, secret_hash, role, is_active, created_at) 
			  VALUES (?, ?, ?, ?, ?, ?)`

	idBytes, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		user.Username,
		user.SecretHash,
		user.Role,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return authDomain.ErrUsernameTaken
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Get retrieves a user by ID. Returns ErrUserNotFound if the user doesn't exist.
func (m *MySQLUserRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, username, secret_hash, role, is_active, created_at 
			  FROM users WHERE id = ?`

	idBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	return m.scanUser(querier.QueryRowContext(ctx, query, idBytes), "failed to get user")
}

// GetByUsername retrieves a user by username. Returns ErrUserNotFound if absent.
func (m *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, username, secret_hash, role, is_active, created_at 
			  FROM users WHERE username = ?`

	return m.scanUser(querier.QueryRowContext(ctx, query, username), "failed to get user by username")
}

// UpdateSecretHash replaces the stored secret hash for a user.
// Returns ErrUserNotFound if no row was updated.
func (m *MySQLUserRepository) UpdateSecretHash(ctx context.Context, userID uuid.UUID, secretHash string) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE users SET secret_hash = ? WHERE id = ?`

	idBytes, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, secretHash, idBytes)
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

// scanUser scans a user row, converting the BINARY(16) id back to a UUID.
func (m *MySQLUserRepository) scanUser(row *sql.Row, wrapMsg string) (*authDomain.User, error) {
	var user authDomain.User
	var idBytes []byte

	err := row.Scan(
		&idBytes,
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
		return nil, apperrors.Wrap(err, wrapMsg)
	}

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &user, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}

// NewMySQLUserRepository creates a new MySQL user repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}
