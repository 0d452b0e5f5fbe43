package domain

import (
	"github.com/allisson/medgate/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrUserNotFound indicates a user with the specified ID or username was not found.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrSessionNotFound indicates no session matches the presented token hash.
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "session not found")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.Wrap(errors.ErrConflict, "username already taken")

	// ErrInvalidRole indicates a role value outside the fixed role set.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")

	// ErrInvalidCredentials indicates authentication failed. Deliberately
	// covers unknown username, wrong secret, and expired or revoked
	// sessions so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrUserInactive indicates the user exists but is deactivated.
	ErrUserInactive = errors.Wrap(errors.ErrForbidden, "user is not active")
)
