package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
)

// mockUserRepository is a mock implementation of UserRepository for testing.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserRepository) UpdateSecretHash(ctx context.Context, userID uuid.UUID, secretHash string) error {
	args := m.Called(ctx, userID, secretHash)
	return args.Error(0)
}

// mockSessionRepository is a mock implementation of SessionRepository for testing.
type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, session *authDomain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Session), args.Error(1)
}

func (m *mockSessionRepository) Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenHash, revokedAt)
	return args.Error(0)
}

// mockSecretService is a mock implementation of SecretService for testing.
type mockSecretService struct {
	mock.Mock
}

func (m *mockSecretService) GenerateSecret() (plainSecret string, hashedSecret string, error error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockSecretService) HashSecret(plainSecret string) (hashedSecret string, error error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

func (m *mockSecretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	args := m.Called(plainSecret, hashedSecret)
	return args.Bool(0)
}

// mockTokenService is a mock implementation of TokenService for testing.
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken() (plainToken string, tokenHash string, error error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}
