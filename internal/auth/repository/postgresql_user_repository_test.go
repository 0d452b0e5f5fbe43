package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func testUser() *authDomain.User {
	return &authDomain.User{
		ID:         uuid.Must(uuid.NewV7()),
		Username:   "alice",
		SecretHash: "argon2-hash",
		Role:       authDomain.RoleClinician,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
}

func userColumns() []string {
	return []string{"id", "username", "secret_hash", "role", "is_active", "created_at"}
}

func TestPostgreSQLUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := testUser()

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID, user.Username, user.SecretHash, user.Role, user.IsActive, user.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateUsername", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := testUser()

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_username_key"`))

		err := repo.Create(ctx, user)
		assert.ErrorIs(t, err, authDomain.ErrUsernameTaken)
	})
}

func TestPostgreSQLUserRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := testUser()

		rows := sqlmock.NewRows(userColumns()).
			AddRow(user.ID, user.Username, user.SecretHash, user.Role, user.IsActive, user.CreatedAt)
		mock.ExpectQuery(`SELECT id, username, secret_hash, role, is_active, created_at`).
			WithArgs(user.ID).
			WillReturnRows(rows)

		got, err := repo.Get(ctx, user.ID)

		require.NoError(t, err)
		assert.Equal(t, user.Username, got.Username)
		assert.Equal(t, authDomain.RoleClinician, got.Role)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectQuery(`SELECT id, username, secret_hash, role, is_active, created_at`).
			WillReturnError(sql.ErrNoRows)

		got, err := repo.Get(ctx, uuid.Must(uuid.NewV7()))

		assert.ErrorIs(t, err, authDomain.ErrUserNotFound)
		assert.Nil(t, got)
	})
}

func TestPostgreSQLUserRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := testUser()

		rows := sqlmock.NewRows(userColumns()).
			AddRow(user.ID, user.Username, user.SecretHash, user.Role, user.IsActive, user.CreatedAt)
		mock.ExpectQuery(`SELECT id, username, secret_hash, role, is_active, created_at`).
			WithArgs("alice").
			WillReturnRows(rows)

		got, err := repo.GetByUsername(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectQuery(`SELECT id, username, secret_hash, role, is_active, created_at`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.GetByUsername(ctx, "ghost")

		assert.ErrorIs(t, err, authDomain.ErrUserNotFound)
		assert.Nil(t, got)
	})
}

func TestPostgreSQLUserRepository_UpdateSecretHash(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		userID := uuid.Must(uuid.NewV7())

		mock.ExpectExec(`UPDATE users SET secret_hash`).
			WithArgs("new-hash", userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateSecretHash(ctx, userID, "new-hash"))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectExec(`UPDATE users SET secret_hash`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateSecretHash(ctx, uuid.Must(uuid.NewV7()), "new-hash")
		assert.ErrorIs(t, err, authDomain.ErrUserNotFound)
	})
}
