package domain

import (
	"github.com/allisson/medgate/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305).
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	// All keys must be exactly 32 bytes (256 bits).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrKeyUnavailable indicates the master key material was not loaded, so
	// an encrypt or decrypt operation cannot proceed. Distinguished from
	// ErrDecryptionFailed so callers can tell "no key" apart from "bad data".
	ErrKeyUnavailable = errors.Wrap(errors.ErrUnavailable, "encryption key unavailable")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong decryption key used
	//   - Ciphertext has been tampered with (authentication failure)
	//   - Malformed or corrupted encrypted data
	//
	// For security reasons, the specific cause is not disclosed to prevent
	// information leakage that could aid attackers.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// Master key loading errors.
	ErrMasterKeysNotSet        = errors.New("MASTER_KEYS environment variable is not set")
	ErrActiveMasterKeyIDNotSet = errors.New("ACTIVE_MASTER_KEY_ID environment variable is not set")
	ErrInvalidMasterKeysFormat = errors.New("invalid MASTER_KEYS format, expected id:base64key")
	ErrInvalidMasterKeyBase64  = errors.New("invalid master key base64 encoding")
	ErrActiveMasterKeyNotFound = errors.New("active master key not found in keychain")
)
