// Package service provides technical services for authentication operations:
// user secret hashing and session token generation.
package service

// SecretService defines operations for user secret hashing and validation.
// Implementations must use an industry-standard password hashing algorithm
// (e.g., argon2, bcrypt).
type SecretService interface {
	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns both the plain text secret (shown once to the operator) and
	// the hashed version (stored in the database).
	GenerateSecret() (plainSecret string, hashedSecret string, error error)

	// HashSecret hashes a plain text secret using a secure hashing algorithm.
	// Used when provisioning users with an operator-chosen secret.
	HashSecret(plainSecret string) (hashedSecret string, error error)

	// CompareSecret compares a plain text secret against a hashed secret.
	// Returns true if the plain secret matches the hash, false otherwise.
	// This is constant-time to prevent timing attacks.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService defines operations for session token generation and hashing.
// Implementations must use cryptographically secure random generation and
// fast hashing suitable for short-lived tokens (e.g., SHA-256).
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain token (returned once at login) and the hashed
	// version (stored in the database).
	GenerateToken() (plainToken string, tokenHash string, error error)

	// HashToken hashes a plain text token using SHA-256.
	// Used for session lookup by comparing hashes.
	HashToken(plainToken string) string
}
