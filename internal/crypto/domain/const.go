// Package domain defines cryptographic domain models for field-level encryption.
package domain

// Algorithm represents the AEAD algorithm used for field-level encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated
// Data (AEAD), ensuring both confidentiality and authenticity: tampered
// ciphertext is rejected rather than decrypted into garbage.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	// Best choice on CPUs with AES-NI hardware acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption
	// algorithm. Constant-time in software, preferred without AES-NI.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration string into an Algorithm.
// Returns ErrUnsupportedAlgorithm for anything outside the closed set.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
