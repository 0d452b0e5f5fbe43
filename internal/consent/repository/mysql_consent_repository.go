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

// MySQLConsentRepository implements consent persistence for MySQL.
// Record UUIDs are stored as BINARY(16).
type MySQLConsentRepository struct {
	db *sql.DB
}

// Upsert inserts or replaces the consent entry for a record.
func (m *MySQLConsentRepository) Upsert(ctx context.Context, entry *consentDomain.ConsentEntry) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO consent_entries (record_id, consent_given, consent_date, retention_days, updated_at) 
			  VALUES (?, ?, ?, ?, ?) 
			  ON DUPLICATE KEY UPDATE 
			  consent_given = VALUES(consent_given), 
			  consent_date = VALUES(consent_date), 
			  retention_days = VALUES(retention_days), 
			  updated_at = VALUES(updated_at)`

	recordIDBytes, err := entry.RecordID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		recordIDBytes,
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
func (m *MySQLConsentRepository) Get(ctx context.Context, recordID uuid.UUID) (*consentDomain.ConsentEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT record_id, consent_given, consent_date, retention_days, updated_at 
			  FROM consent_entries WHERE record_id = ?`

	recordIDBytes, err := recordID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var entry consentDomain.ConsentEntry
	var storedIDBytes []byte

	err = querier.QueryRowContext(ctx, query, recordIDBytes).Scan(
		&storedIDBytes,
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

	if err := entry.RecordID.UnmarshalBinary(storedIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &entry, nil
}

// ListPurgeEligible retrieves consent entries whose retention window has
// elapsed at the given instant.
func (m *MySQLConsentRepository) ListPurgeEligible(ctx context.Context, now time.Time) ([]*consentDomain.ConsentEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT record_id, consent_given, consent_date, retention_days, updated_at 
			  FROM consent_entries 
			  WHERE DATE_ADD(consent_date, INTERVAL retention_days DAY) < ? 
			  ORDER BY consent_date ASC`

	rows, err := querier.QueryContext(ctx, query, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list purge eligible consent entries")
	}
	defer rows.Close()

	return scanMySQLConsentEntries(rows)
}

// Delete removes the consent entry for a record. Missing entries are not an
// error.
func (m *MySQLConsentRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	recordIDBytes, err := recordID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `DELETE FROM consent_entries WHERE record_id = ?`

	if _, err := querier.ExecContext(ctx, query, recordIDBytes); err != nil {
		return apperrors.Wrap(err, "failed to delete consent entry")
	}
	return nil
}

func scanMySQLConsentEntries(rows *sql.Rows) ([]*consentDomain.ConsentEntry, error) {
	var entries []*consentDomain.ConsentEntry

	for rows.Next() {
		var entry consentDomain.ConsentEntry
		var recordIDBytes []byte
		err := rows.Scan(
			&recordIDBytes,
			&entry.ConsentGiven,
			&entry.ConsentDate,
			&entry.RetentionDays,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan consent entry")
		}
		if err := entry.RecordID.UnmarshalBinary(recordIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate consent entries")
	}

	return entries, nil
}

// NewMySQLConsentRepository creates a new MySQL consent repository.
func NewMySQLConsentRepository(db *sql.DB) *MySQLConsentRepository {
	return &MySQLConsentRepository{db: db}
}
