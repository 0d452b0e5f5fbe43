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

// PostgreSQLSessionRepository implements session persistence for PostgreSQL.
type PostgreSQLSessionRepository struct {
	db *sql.DB
}

// Create inserts a new session.
func (p *PostgreSQLSessionRepository) Create(ctx context.Context, session *authDomain.Session) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO sessions (id, token_hash, user_id, expires_at, revoked_at, created_at) 
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		session.ID,
		session.TokenHash,
		session.UserID,
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
func (p *PostgreSQLSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Session, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, user_id, expires_at, revoked_at, created_at 
			  FROM sessions WHERE token_hash = $1`

	var session authDomain.Session

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.TokenHash,
		&session.UserID,
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

	return &session, nil
}

// Revoke marks the session matching the token hash as revoked. Already
// revoked sessions are left untouched. Returns ErrSessionNotFound if no
// row was updated.
func (p *PostgreSQLSessionRepository) Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE sessions SET revoked_at = $1 
			  WHERE token_hash = $2 AND revoked_at IS NULL`

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

// NewPostgreSQLSessionRepository creates a new PostgreSQL session repository.
func NewPostgreSQLSessionRepository(db *sql.DB) *PostgreSQLSessionRepository {
	return &PostgreSQLSessionRepository{db: db}
}
