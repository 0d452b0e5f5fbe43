// Package repository provides append-only persistence for audit entries,
// with PostgreSQL and MySQL variants. Entries are only ever inserted and
// read; there is no update or delete path.
package repository

import (
	"context"
	"database/sql"
	"strconv"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	"github.com/allisson/medgate/internal/database"
	apperrors "github.com/allisson/medgate/internal/errors"
)

// PostgreSQLAuditRepository implements audit entry persistence for PostgreSQL.
// The sequence id comes from a bigserial column, read back via RETURNING.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// Create inserts an audit entry and fills in its store-assigned SequenceID.
func (p *PostgreSQLAuditRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_logs 
			  (actor_id, attempted_username, role, action, outcome, detail, signature, created_at) 
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) 
			  RETURNING sequence_id`

	err := querier.QueryRowContext(
		ctx,
		query,
		entry.ActorID,
		entry.AttemptedUsername,
		entry.Role,
		entry.Action,
		entry.Outcome,
		entry.Detail,
		entry.Signature,
		entry.CreatedAt,
	).Scan(&entry.SequenceID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}
	return nil
}

// List retrieves audit entries matching the filter, newest first.
func (p *PostgreSQLAuditRepository) List(
	ctx context.Context,
	filter *auditDomain.ListFilter,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT sequence_id, actor_id, attempted_username, role, action, outcome, 
			  detail, signature, created_at 
			  FROM audit_logs`

	var args []any
	var conditions []string

	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		conditions = append(conditions, "actor_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Outcome != nil {
		args = append(args, *filter.Outcome)
		conditions = append(conditions, "outcome = $"+strconv.Itoa(len(args)))
	}

	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}

	args = append(args, filter.Limit)
	query += " ORDER BY sequence_id DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// ListAllAscending retrieves every audit entry in sequence order. Used by
// offline signature verification.
func (p *PostgreSQLAuditRepository) ListAllAscending(ctx context.Context) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT sequence_id, actor_id, attempted_username, role, action, outcome, 
			  detail, signature, created_at 
			  FROM audit_logs ORDER BY sequence_id ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// scanAuditEntries scans all rows into audit entries.
func scanAuditEntries(rows *sql.Rows) ([]*auditDomain.AuditEntry, error) {
	var entries []*auditDomain.AuditEntry

	for rows.Next() {
		var entry auditDomain.AuditEntry
		err := rows.Scan(
			&entry.SequenceID,
			&entry.ActorID,
			&entry.AttemptedUsername,
			&entry.Role,
			&entry.Action,
			&entry.Outcome,
			&entry.Detail,
			&entry.Signature,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}

// NewPostgreSQLAuditRepository creates a new PostgreSQL audit repository.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}
