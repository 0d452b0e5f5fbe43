// Package repository provides data persistence implementations for health
// records, with PostgreSQL and MySQL variants.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/medgate/internal/database"
	apperrors "github.com/allisson/medgate/internal/errors"
	recordDomain "github.com/allisson/medgate/internal/record/domain"
)

// PostgreSQLRecordRepository implements record persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

const postgresRecordColumns = `id, encrypted_name, encrypted_contact, encrypted_diagnosis, status, 
			  pseudonym_seq, anonymized_name, anonymized_contact, anonymization_state, 
			  created_at, updated_at`

// Create inserts a new record.
func (p *PostgreSQLRecordRepository) Create(ctx context.Context, record *recordDomain.Record) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO records (` + postgresRecordColumns + `) 
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.EncryptedName,
		record.EncryptedContact,
		record.EncryptedDiagnosis,
		record.Status,
		record.PseudonymSeq,
		record.AnonymizedName,
		record.AnonymizedContact,
		record.AnonymizationState,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create record")
	}
	return nil
}

// Get retrieves a record by ID. Returns ErrRecordNotFound if absent.
func (p *PostgreSQLRecordRepository) Get(ctx context.Context, recordID uuid.UUID) (*recordDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresRecordColumns + ` FROM records WHERE id = $1`

	var record recordDomain.Record

	err := querier.QueryRowContext(ctx, query, recordID).Scan(
		&record.ID,
		&record.EncryptedName,
		&record.EncryptedContact,
		&record.EncryptedDiagnosis,
		&record.Status,
		&record.PseudonymSeq,
		&record.AnonymizedName,
		&record.AnonymizedContact,
		&record.AnonymizationState,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recordDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record")
	}

	return &record, nil
}

// List retrieves records ordered by creation time, newest first.
func (p *PostgreSQLRecordRepository) List(ctx context.Context, offset, limit int) ([]*recordDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresRecordColumns + ` FROM records 
			  ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}
	defer rows.Close()

	return scanPostgresRecords(rows)
}

// ListByState retrieves every record in the given anonymization state,
// oldest first. Used by the batch anonymization pass.
func (p *PostgreSQLRecordRepository) ListByState(
	ctx context.Context,
	state recordDomain.AnonymizationState,
) ([]*recordDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresRecordColumns + ` FROM records 
			  WHERE anonymization_state = $1 ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, state)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records by state")
	}
	defer rows.Close()

	return scanPostgresRecords(rows)
}

// Update modifies an existing record. Returns ErrRecordNotFound if no row
// was updated.
func (p *PostgreSQLRecordRepository) Update(ctx context.Context, record *recordDomain.Record) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE records 
			  SET encrypted_name = $1, 
			  	  encrypted_contact = $2,
				  encrypted_diagnosis = $3,
				  status = $4,
				  pseudonym_seq = $5,
				  anonymized_name = $6,
				  anonymized_contact = $7,
				  anonymization_state = $8,
				  updated_at = $9
			  WHERE id = $10`

	result, err := querier.ExecContext(
		ctx,
		query,
		record.EncryptedName,
		record.EncryptedContact,
		record.EncryptedDiagnosis,
		record.Status,
		record.PseudonymSeq,
		record.AnonymizedName,
		record.AnonymizedContact,
		record.AnonymizationState,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update record")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return recordDomain.ErrRecordNotFound
	}

	return nil
}

// Delete removes a record. Returns ErrRecordNotFound if no row was deleted.
func (p *PostgreSQLRecordRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM records WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, recordID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete record")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return recordDomain.ErrRecordNotFound
	}

	return nil
}

// MaxPseudonymSeq returns the highest assigned pseudonym sequence, or 0
// when none has been assigned. Seeds the anonymizer counter at startup.
func (p *PostgreSQLRecordRepository) MaxPseudonymSeq(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COALESCE(MAX(pseudonym_seq), 0) FROM records`

	var maxSeq int64
	if err := querier.QueryRowContext(ctx, query).Scan(&maxSeq); err != nil {
		return 0, apperrors.Wrap(err, "failed to get max pseudonym sequence")
	}

	return maxSeq, nil
}

// scanPostgresRecords scans all rows into records.
func scanPostgresRecords(rows *sql.Rows) ([]*recordDomain.Record, error) {
	var records []*recordDomain.Record

	for rows.Next() {
		var record recordDomain.Record
		err := rows.Scan(
			&record.ID,
			&record.EncryptedName,
			&record.EncryptedContact,
			&record.EncryptedDiagnosis,
			&record.Status,
			&record.PseudonymSeq,
			&record.AnonymizedName,
			&record.AnonymizedContact,
			&record.AnonymizationState,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan record")
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate records")
	}

	return records, nil
}

// NewPostgreSQLRecordRepository creates a new PostgreSQL record repository.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}
