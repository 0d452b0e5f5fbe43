// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts a new user. Returns ErrUsernameTaken if the username
	// is already registered.
	Create(ctx context.Context, user *authDomain.User) error

	// Get retrieves a user by ID. Returns ErrUserNotFound if absent.
	Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error)

	// GetByUsername retrieves a user by username. Returns ErrUserNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*authDomain.User, error)

	// UpdateSecretHash replaces the stored secret hash for a user.
	// Returns ErrUserNotFound if the user doesn't exist.
	UpdateSecretHash(ctx context.Context, userID uuid.UUID, secretHash string) error
}

// SessionRepository defines persistence operations for sessions.
type SessionRepository interface {
	// Create inserts a new session.
	Create(ctx context.Context, session *authDomain.Session) error

	// GetByTokenHash retrieves a session by its token hash.
	// Returns ErrSessionNotFound if absent.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Session, error)

	// Revoke marks the session matching the token hash as revoked.
	// Returns ErrSessionNotFound if absent.
	Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error
}

// AuthUseCase defines authentication operations: credential verification,
// session issuance, and session validation.
type AuthUseCase interface {
	// Login verifies the presented credentials and issues a session token.
	// Returns ErrInvalidCredentials on unknown username or wrong secret,
	// ErrUserInactive for a deactivated user.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error)

	// Authenticate resolves a session token hash to its user. Returns
	// ErrInvalidCredentials for unknown, expired, or revoked sessions,
	// ErrUserInactive for a deactivated user.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.User, error)

	// Logout revokes the session matching the token hash. Revoking an
	// unknown or already revoked session is a no-op.
	Logout(ctx context.Context, tokenHash string) error
}

// UserUseCase defines user provisioning operations, driven by operator CLI
// commands rather than the HTTP API.
type UserUseCase interface {
	// Create provisions a new user with a hashed secret.
	Create(ctx context.Context, input *authDomain.CreateUserInput) (*authDomain.User, error)

	// RotateSecret replaces a user's secret. Existing sessions stay valid
	// until they expire.
	RotateSecret(ctx context.Context, username string, plainSecret string) error
}
