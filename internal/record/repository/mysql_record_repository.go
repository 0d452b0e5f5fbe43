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

// MySQLRecordRepository implements record persistence for MySQL.
// UUIDs are stored as BINARY(16) columns.
type MySQLRecordRepository struct {
	db *sql.DB
}

const mysqlRecordColumns = `id, encrypted_name, encrypted_contact, encrypted_diagnosis, status, 
			  pseudonym_seq, anonymized_name, anonymized_contact, anonymization_state, 
			  created_at, updated_at`

// Create inserts a new record.
func (m *MySQLRecordRepository) Create(ctx context.Context, record *recordDomain.Record) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO records (` + mysqlRecordColumns + `) 
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	idBytes, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
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
func (m *MySQLRecordRepository) Get(ctx context.Context, recordID uuid.UUID) (*recordDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlRecordColumns + ` FROM records WHERE id = ?`

	idBytes, err := recordID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var record recordDomain.Record
	var rowID []byte

	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&rowID,
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

	if err := record.ID.UnmarshalBinary(rowID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &record, nil
}

// List retrieves records ordered by creation time, newest first.
func (m *MySQLRecordRepository) List(ctx context.Context, offset, limit int) ([]*recordDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlRecordColumns + ` FROM records 
			  ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}
	defer rows.Close()

	return scanMySQLRecords(rows)
}

// ListByState retrieves every record in the given anonymization state,
// oldest first.
func (m *MySQLRecordRepository) ListByState(
	ctx context.Context,
	state recordDomain.AnonymizationState,
) ([]*recordDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlRecordColumns + ` FROM records 
			  WHERE anonymization_state = ? ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, state)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records by state")
	}
	defer rows.Close()

	return scanMySQLRecords(rows)
}

// Update modifies an existing record. Returns ErrRecordNotFound if no row
// was updated.
func (m *MySQLRecordRepository) Update(ctx context.Context, record *recordDomain.Record) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE records 
			  SET encrypted_name = ?, 
			  	  encrypted_contact = ?,
				  encrypted_diagnosis = ?,
				  status = ?,
				  pseudonym_seq = ?,
				  anonymized_name = ?,
				  anonymized_contact = ?,
				  anonymization_state = ?,
				  updated_at = ?
			  WHERE id = ?`

	idBytes, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

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
		idBytes,
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
func (m *MySQLRecordRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM records WHERE id = ?`

	idBytes, err := recordID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, idBytes)
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
// when none has been assigned.
func (m *MySQLRecordRepository) MaxPseudonymSeq(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COALESCE(MAX(pseudonym_seq), 0) FROM records`

	var maxSeq int64
	if err := querier.QueryRowContext(ctx, query).Scan(&maxSeq); err != nil {
		return 0, apperrors.Wrap(err, "failed to get max pseudonym sequence")
	}

	return maxSeq, nil
}

// scanMySQLRecords scans all rows into records, decoding BINARY(16) ids.
func scanMySQLRecords(rows *sql.Rows) ([]*recordDomain.Record, error) {
	var records []*recordDomain.Record

	for rows.Next() {
		var record recordDomain.Record
		var rowID []byte
		err := rows.Scan(
			&rowID,
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
		if err := record.ID.UnmarshalBinary(rowID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate records")
	}

	return records, nil
}

// NewMySQLRecordRepository creates a new MySQL record repository.
func NewMySQLRecordRepository(db *sql.DB) *MySQLRecordRepository {
	return &MySQLRecordRepository{db: db}
}
