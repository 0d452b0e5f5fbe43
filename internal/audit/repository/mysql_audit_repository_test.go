package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
)

func TestMySQLAuditRepository_Create(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewMySQLAuditRepository(db)
	entry := allowedEntry()

	actorIDBytes, err := entry.ActorID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO audit_logs`).
		WithArgs(actorIDBytes, entry.AttemptedUsername, entry.Role, entry.Action,
			entry.Outcome, entry.Detail, entry.Signature, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(42, 1))

	require.NoError(t, repo.Create(ctx, entry))
	assert.Equal(t, int64(42), entry.SequenceID)
}

func TestMySQLAuditRepository_List(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewMySQLAuditRepository(db)
	entry := allowedEntry()

	actorIDBytes, err := entry.ActorID.MarshalBinary()
	require.NoError(t, err)

	rows := sqlmock.NewRows(auditColumns()).AddRow(
		int64(5), actorIDBytes, entry.AttemptedUsername, entry.Role, entry.Action,
		entry.Outcome, entry.Detail, entry.Signature, entry.CreatedAt,
	)
	mock.ExpectQuery(`SELECT .+ FROM audit_logs ORDER BY sequence_id DESC`).
		WithArgs(50, 0).
		WillReturnRows(rows)

	got, err := repo.List(ctx, &auditDomain.ListFilter{Offset: 0, Limit: 50})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entry.ActorID, got[0].ActorID)
}
