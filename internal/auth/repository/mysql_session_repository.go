package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
	"github.com/allisson/medgate/internal/database"
	apperrors "github.com/allisson/medgate/internal/errors"
)

// MySQLSessionRepository implements session persistence for MySQL.
// UUIDs are stored as BINARY(16) columns.
type MySQLSessionRepository struct {
	db *sql.DB
}

// Create inserts a new session.
func (m *MySQLSessionRepository) Create(ctx context.Context, session *authDomain.Session) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO sessions (id, token_hash, user_id, expires_at, revoked_at, created_at) 
			  VALUES (?, ?, ?, ?, ?, ?)`

	idBytes, err := session.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := session.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		session.TokenHash,
		userIDBytes,
		session.ExpiresAt,
		session.RevokedAt,
		session.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create session")
	}
	return nil
}

// GetByTokenHash retrieves a session by its token hash.
// Returns ErrSessionNotFound if no session matches.
func (m *MySQLSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Session, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, user_id, expires_at, revoked_at, created_at 
			  FROM sessions WHERE token_hash = ?`

	var session authDomain.Session
	var idBytes, userIDBytes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBytes,
		&session.TokenHash,
		&userIDBytes,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrSessionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get session")
	}

	if err := session.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := session.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &session, nil
}

// Revoke marks the session matching the token hash as revoked.
// Returns ErrSessionNotFound if no row was updated.
func (m *MySQLSessionRepository) Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE sessions SET revoked_at = ? 
			  WHERE token_hash = ? AND revoked_at IS NULL`

	result, err := querier.ExecContext(ctx, query, revokedAt, tokenHash)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke session")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return authDomain.ErrSessionNotFound
	}

	return nil
}

// NewMySQLSessionRepository creates a new MySQL session repository.
func NewMySQLSessionRepository(db *sql.DB) *MySQLSessionRepository {
	return &MySQLSessionRepository{db: db}
}
