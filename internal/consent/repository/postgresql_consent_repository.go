package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	consentDomain "github.com/allisson/medgate/internal/consent/domain"
	"github.com/allisson/medgate/internal/database"
	apperrors "github.com/allisson/medgate/internal/errors"
)

// PostgreSQLConsentRepository implements consent persistence for PostgreSQL.
type PostgreSQLConsentRepository struct {
	db *sql.DB
}

// Upsert inserts or replaces the consent entry for a record.
func (p *PostgreSQLConsentRepository) Upsert(ctx context.Context, entry *consentDomain.ConsentEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO consent_entries (record_id, consent_given, consent_date, retention_days, updated_at) 
			  VALUES ($1, $2, $3, $4, $5) 
			  ON CONFLICT (record_id) DO UPDATE SET 
			  consent_given = EXCLUDED.consent_given, 
			  consent_date = EXCLUDED.consent_date, 
			  retention_days = EXCLUDED.retention_days, 
			  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.RecordID,
		entry.ConsentGiven,
		entry.ConsentDate,
		entry.RetentionDays,
		entry.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert consent entry")
	}
	return nil
}

// Get retrieves the consent entry for a record.
// Returns ErrConsentNotFound if no entry exists.
func (p *PostgreSQLConsentRepository) Get(ctx context.Context, recordID uuid.UUID) (*consentDomain.ConsentEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT record_id, consent_given, consent_date, retention_days, updated_at 
			  FROM consent_entries WHERE record_id = $1`

	var entry consentDomain.ConsentEntry

	err := querier.QueryRowContext(ctx, query, recordID).Scan(
		&entry.RecordID,
		&entry.ConsentGiven,
		&entry.ConsentDate,
		&entry.RetentionDays,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, consentDomain.ErrConsentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get consent entry")
	}

	return &entry, nil
}

// ListPurgeEligible retrieves consent entries whose retention window has
// elapsed at the given instant.
func (p *PostgreSQLConsentRepository) ListPurgeEligible(ctx context.Context, now time.Time) ([]*consentDomain.ConsentEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT record_id, consent_given, consent_date, retention_days, updated_at 
			  FROM consent_entries 
			  WHERE consent_date + make_interval(days => retention_days) < $1 
			  ORDER BY consent_date ASC`

	rows, err := querier.QueryContext(ctx, query, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list purge eligible consent entries")
	}
	defer rows.Close()

	return scanConsentEntries(rows)
}

// Delete removes the consent entry for a record. Used when the record itself
// is purged. Missing entries are not an error.
func (p *PostgreSQLConsentRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM consent_entries WHERE record_id = $1`

	if _, err := querier.ExecContext(ctx, query, recordID); err != nil {
		return apperrors.Wrap(err, "failed to delete consent entry")
	}
	return nil
}

func scanConsentEntries(rows *sql.Rows) ([]*consentDomain.ConsentEntry, error) {
	var entries []*consentDomain.ConsentEntry

	for rows.Next() {
		var entry consentDomain.ConsentEntry
		err := rows.Scan(
			&entry.RecordID,
			&entry.ConsentGiven,
			&entry.ConsentDate,
			&entry.RetentionDays,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan consent entry")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate consent entries")
	}

	return entries, nil
}

// NewPostgreSQLConsentRepository creates a new PostgreSQL consent repository.
func NewPostgreSQLConsentRepository(db *sql.DB) *PostgreSQLConsentRepository {
	return &PostgreSQLConsentRepository{db: db}
}
