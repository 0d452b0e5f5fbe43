package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated principal. Users authenticate with a
// username and secret and are authorized through their role's capability set.
type User struct {
	ID         uuid.UUID // Unique identifier (UUIDv7)
	Username   string    // Unique login name
	SecretHash string    //nolint:gosec // Argon2id hash, never the plaintext
	Role       Role
	IsActive   bool // Inactive users cannot authenticate
	CreatedAt  time.Time
}

// CreateUserInput contains the parameters for provisioning a new user.
type CreateUserInput struct {
	Username    string
	PlainSecret string // Hashed before storage, never persisted as-is
	Role        Role
	IsActive    bool
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Username string
	Secret   string
}

// LoginOutput carries the session token issued on successful login.
// The plain token is returned exactly once; only its hash is stored.
type LoginOutput struct {
	User       *User
	PlainToken string
	ExpiresAt  time.Time
}
