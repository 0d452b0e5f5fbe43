// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
)

// userKey is a context key type for storing authenticated users.
type userKey struct{}

// tokenHashKey is a context key type for storing the session token hash.
type tokenHashKey struct{}

// WithUser stores an authenticated user in the context.
// Called by the authentication middleware after successful token validation.
func WithUser(ctx context.Context, user *authDomain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser retrieves an authenticated user from the context.
// Returns (user, true) if a user is present, or (nil, false) if none was set.
func GetUser(ctx context.Context) (*authDomain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*authDomain.User)
	return user, ok
}

// WithTokenHash stores the hash of the presented session token in the context.
// Handlers that operate on the current session (logout) read it back.
func WithTokenHash(ctx context.Context, tokenHash string) context.Context {
	return context.WithValue(ctx, tokenHashKey{}, tokenHash)
}

// GetTokenHash retrieves the session token hash from the context.
func GetTokenHash(ctx context.Context) (string, bool) {
	tokenHash, ok := ctx.Value(tokenHashKey{}).(string)
	return tokenHash, ok
}
