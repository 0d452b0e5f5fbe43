package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func allowedEntry() *auditDomain.AuditEntry {
	return &auditDomain.AuditEntry{
		ActorID:           uuid.Must(uuid.NewV7()),
		AttemptedUsername: "alice",
		Role:              "admin",
		Action:            auditDomain.ActionRecordCreate,
		Outcome:           auditDomain.OutcomeAllowed,
		Detail:            "record created",
		Signature:         []byte("signature-bytes"),
		CreatedAt:         time.Now().UTC(),
	}
}

func auditColumns() []string {
	return []string{
		"sequence_id", "actor_id", "attempted_username", "role", "action",
		"outcome", "detail", "signature", "created_at",
	}
}

func TestPostgreSQLAuditRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AssignsSequenceID", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLAuditRepository(db)
		entry := allowedEntry()

		mock.ExpectQuery(`INSERT INTO audit_logs`).
			WithArgs(entry.ActorID, entry.AttemptedUsername, entry.Role, entry.Action,
				entry.Outcome, entry.Detail, entry.Signature, entry.CreatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"sequence_id"}).AddRow(77))

		require.NoError(t, repo.Create(ctx, entry))
		assert.Equal(t, int64(77), entry.SequenceID)
	})

	t.Run("Error_SinkDown", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLAuditRepository(db)

		mock.ExpectQuery(`INSERT INTO audit_logs`).
			WillReturnError(sql.ErrConnDone)

		err := repo.Create(ctx, allowedEntry())
		assert.Error(t, err)
	})
}

func TestPostgreSQLAuditRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("NoFilter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLAuditRepository(db)
		entry := allowedEntry()

		rows := sqlmock.NewRows(auditColumns()).AddRow(
			int64(3), entry.ActorID, entry.AttemptedUsername, entry.Role, entry.Action,
			entry.Outcome, entry.Detail, entry.Signature, entry.CreatedAt,
		)
		mock.ExpectQuery(`SELECT .+ FROM audit_logs ORDER BY sequence_id DESC`).
			WithArgs(50, 0).
			WillReturnRows(rows)

		got, err := repo.List(ctx, &auditDomain.ListFilter{Offset: 0, Limit: 50})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(3), got[0].SequenceID)
	})

	t.Run("FilterByActorAndOutcome", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLAuditRepository(db)

		actorID := uuid.Must(uuid.NewV7())
		outcome := auditDomain.OutcomeDenied

		mock.ExpectQuery(`SELECT .+ FROM audit_logs WHERE actor_id = \$1 AND outcome = \$2`).
			WithArgs(actorID, outcome, 20, 0).
			WillReturnRows(sqlmock.NewRows(auditColumns()))

		got, err := repo.List(ctx, &auditDomain.ListFilter{
			ActorID: &actorID,
			Outcome: &outcome,
			Offset:  0,
			Limit:   20,
		})

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAuditRepository_ListAllAscending(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewPostgreSQLAuditRepository(db)
	entry := allowedEntry()

	rows := sqlmock.NewRows(auditColumns())
	rows.AddRow(int64(1), entry.ActorID, entry.AttemptedUsername, entry.Role, entry.Action,
		entry.Outcome, entry.Detail, entry.Signature, entry.CreatedAt)
	rows.AddRow(int64(2), entry.ActorID, entry.AttemptedUsername, entry.Role, entry.Action,
		entry.Outcome, entry.Detail, entry.Signature, entry.CreatedAt)

	mock.ExpectQuery(`SELECT .+ FROM audit_logs ORDER BY sequence_id ASC`).
		WillReturnRows(rows)

	got, err := repo.ListAllAscending(ctx)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].SequenceID)
	assert.Equal(t, int64(2), got[1].SequenceID)
}
