// Package service provides the cryptographic services for field-level
// encryption at rest: AEAD ciphers and the field cipher built on them.
package service

import (
	cryptoDomain "github.com/allisson/medgate/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// FieldCipher encrypts and decrypts individual record fields classified as
// at-rest-encrypted. Ciphertexts are self-describing strings (versioned
// format) so a future key-id-tagged format can be introduced without
// changing callers.
type FieldCipher interface {
	// EncryptField encrypts a single field value for storage at rest.
	// Returns ErrKeyUnavailable if no key material is loaded.
	EncryptField(plaintext string) (string, error)

	// DecryptField reverses EncryptField. Returns ErrKeyUnavailable if no
	// key material is loaded, or ErrDecryptionFailed if the ciphertext is
	// malformed or fails authentication.
	DecryptField(ciphertext string) (string, error)
}
