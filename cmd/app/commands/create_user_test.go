package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
)

func TestRunCreateUser(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	user := &authDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  "alice",
		Role:      authDomain.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	t.Run("Success_WithProvidedSecret", func(t *testing.T) {
		userUC := &mockUserUseCase{}
		secretSvc := &mockSecretService{}
		var out bytes.Buffer

		userUC.On("Create", ctx, mock.MatchedBy(func(input *authDomain.CreateUserInput) bool {
			return input.Username == "alice" &&
				input.PlainSecret == "operator-chosen" &&
				input.Role == authDomain.RoleAdmin
		})).Return(user, nil)

		err := RunCreateUser(ctx, userUC, secretSvc, logger, &out, "alice", "admin", true, "operator-chosen", "text")
		require.NoError(t, err)

		output := out.String()
		assert.Contains(t, output, "User created successfully")
		assert.Contains(t, output, "alice")
		assert.NotContains(t, output, "operator-chosen")
		userUC.AssertExpectations(t)
		secretSvc.AssertNotCalled(t, "GenerateSecret")
	})

	t.Run("Success_GeneratedSecretShownOnce", func(t *testing.T) {
		userUC := &mockUserUseCase{}
		secretSvc := &mockSecretService{}
		var out bytes.Buffer

		secretSvc.On("GenerateSecret").Return("random-secret", "hashed", nil)
		userUC.On("Create", ctx, mock.MatchedBy(func(input *authDomain.CreateUserInput) bool {
			return input.PlainSecret == "random-secret"
		})).Return(user, nil)

		err := RunCreateUser(ctx, userUC, secretSvc, logger, &out, "alice", "admin", true, "", "text")
		require.NoError(t, err)

		assert.Contains(t, out.String(), "random-secret")
		assert.Contains(t, out.String(), "shown only once")
	})

	t.Run("Success_JSONFormat", func(t *testing.T) {
		userUC := &mockUserUseCase{}
		secretSvc := &mockSecretService{}
		var out bytes.Buffer

		secretSvc.On("GenerateSecret").Return("random-secret", "hashed", nil)
		userUC.On("Create", ctx, mock.Anything).Return(user, nil)

		err := RunCreateUser(ctx, userUC, secretSvc, logger, &out, "alice", "admin", true, "", "json")
		require.NoError(t, err)

		var result map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, "alice", result["username"])
		assert.Equal(t, "admin", result["role"])
		assert.Equal(t, "random-secret", result["secret"])
	})

	t.Run("Error_InvalidRole", func(t *testing.T) {
		userUC := &mockUserUseCase{}
		secretSvc := &mockSecretService{}
		var out bytes.Buffer

		err := RunCreateUser(ctx, userUC, secretSvc, logger, &out, "alice", "superuser", true, "s", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid role")
		userUC.AssertNotCalled(t, "Create")
	})

	t.Run("Error_CreateFails", func(t *testing.T) {
		userUC := &mockUserUseCase{}
		secretSvc := &mockSecretService{}
		var out bytes.Buffer

		userUC.On("Create", ctx, mock.Anything).Return(nil, errors.New("username taken"))

		err := RunCreateUser(ctx, userUC, secretSvc, logger, &out, "alice", "admin", true, "s", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create user")
	})
}

func TestRunRotateSecret(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Success_GeneratedSecret", func(t *testing.T) {
		userUC := &mockUserUseCase{}
		secretSvc := &mockSecretService{}
		var out bytes.Buffer

		secretSvc.On("GenerateSecret").Return("new-secret", "hashed", nil)
		userUC.On("RotateSecret", ctx, "alice", "new-secret").Return(nil)

		err := RunRotateSecret(ctx, userUC, secretSvc, logger, &out, "alice", "", "text")
		require.NoError(t, err)

		assert.Contains(t, out.String(), "Secret rotated successfully")
		assert.Contains(t, out.String(), "new-secret")
		userUC.AssertExpectations(t)
	})

	t.Run("Error_UnknownUser", func(t *testing.T) {
		userUC := &mockUserUseCase{}
		secretSvc := &mockSecretService{}
		var out bytes.Buffer

		userUC.On("RotateSecret", ctx, "ghost", "s").Return(errors.New("user not found"))

		err := RunRotateSecret(ctx, userUC, secretSvc, logger, &out, "ghost", "s", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to rotate secret")
	})
}
