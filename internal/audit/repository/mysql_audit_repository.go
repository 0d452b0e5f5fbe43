package repository

import (
	"context"
	"database/sql"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	"github.com/allisson/medgate/internal/database"
	apperrors "github.com/allisson/medgate/internal/errors"
)

// MySQLAuditRepository implements audit entry persistence for MySQL.
// The sequence id comes from an AUTO_INCREMENT column via LastInsertId;
// actor UUIDs are stored as BINARY(16).
type MySQLAuditRepository struct {
	db *sql.DB
}

// Create inserts an audit entry and fills in its store-assigned SequenceID.
func (m *MySQLAuditRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO audit_logs 
			  (actor_id, attempted_username, role, action, outcome, detail, signature, created_at) 
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	actorIDBytes, err := entry.ActorID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		actorIDBytes,
		entry.AttemptedUsername,
		entry.Role,
		entry.Action,
		entry.Outcome,
		entry.Detail,
		entry.Signature,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}

	sequenceID, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get audit entry sequence id")
	}
	entry.SequenceID = sequenceID

	return nil
}

// List retrieves audit entries matching the filter, newest first.
func (m *MySQLAuditRepository) List(
	ctx context.Context,
	filter *auditDomain.ListFilter,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT sequence_id, actor_id, attempted_username, role, action, outcome, 
			  detail, signature, created_at 
			  FROM audit_logs`

	var args []any
	var conditions []string

	if filter.ActorID != nil {
		actorIDBytes, err := filter.ActorID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal UUID")
		}
		args = append(args, actorIDBytes)
		conditions = append(conditions, "actor_id = ?")
	}
	if filter.Outcome != nil {
		args = append(args, *filter.Outcome)
		conditions = append(conditions, "outcome = ?")
	}

	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}

	query += " ORDER BY sequence_id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer rows.Close()

	return scanMySQLAuditEntries(rows)
}

// ListAllAscending retrieves every audit entry in sequence order.
func (m *MySQLAuditRepository) ListAllAscending(ctx context.Context) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT sequence_id, actor_id, attempted_username, role, action, outcome, 
			  detail, signature, created_at 
			  FROM audit_logs ORDER BY sequence_id ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer rows.Close()

	return scanMySQLAuditEntries(rows)
}

// scanMySQLAuditEntries scans all rows, decoding BINARY(16) actor ids.
func scanMySQLAuditEntries(rows *sql.Rows) ([]*auditDomain.AuditEntry, error) {
	var entries []*auditDomain.AuditEntry

	for rows.Next() {
		var entry auditDomain.AuditEntry
		var actorIDBytes []byte
		err := rows.Scan(
			&entry.SequenceID,
			&actorIDBytes,
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
		if err := entry.ActorID.UnmarshalBinary(actorIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}

// NewMySQLAuditRepository creates a new MySQL audit repository.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}
