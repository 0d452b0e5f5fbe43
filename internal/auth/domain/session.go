package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session represents an issued authentication token. Only the SHA-256 hash
// of the token is stored; the plain token lives client-side.
type Session struct {
	ID        uuid.UUID
	TokenHash string
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsValid reports whether the session can still authenticate requests at
// the given instant.
func (s *Session) IsValid(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}
