package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
)

func TestMySQLUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_StoresUUIDAsBinary", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)
		user := testUser()

		idBytes, err := user.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(idBytes, user.Username, user.SecretHash, user.Role, user.IsActive, user.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateUsername", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(errors.New("Error 1062: Duplicate entry 'alice' for key 'username'"))

		err := repo.Create(ctx, testUser())
		assert.ErrorIs(t, err, authDomain.ErrUsernameTaken)
	})
}

func TestMySQLUserRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DecodesBinaryUUID", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)
		user := testUser()

		idBytes, err := user.ID.MarshalBinary()
		require.NoError(t, err)

		rows := sqlmock.NewRows(userColumns()).
			AddRow(idBytes, user.Username, user.SecretHash, user.Role, user.IsActive, user.CreatedAt)
		mock.ExpectQuery(`SELECT id, username, secret_hash, role, is_active, created_at`).
			WithArgs("alice").
			WillReturnRows(rows)

		got, err := repo.GetByUsername(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Role, got.Role)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectQuery(`SELECT id, username, secret_hash, role, is_active, created_at`).
			WillReturnError(sql.ErrNoRows)

		got, err := repo.GetByUsername(ctx, "ghost")

		assert.ErrorIs(t, err, authDomain.ErrUserNotFound)
		assert.Nil(t, got)
	})
}

func TestMySQLUserRepository_UpdateSecretHash(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(`UPDATE users SET secret_hash`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateSecretHash(ctx, uuid.Must(uuid.NewV7()), "new-hash")
		assert.ErrorIs(t, err, authDomain.ErrUserNotFound)
	})
}
