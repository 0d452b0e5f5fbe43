package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// AES-GCM combines the confidentiality of AES with the authenticity of GMAC:
// a tampered ciphertext fails authentication instead of decrypting to noise.
// Uses a 256-bit key, a random 12-byte nonce per encryption, and a 16-byte
// authentication tag appended to the ciphertext.
//
// The cipher instance is stateless and safe for concurrent use from multiple
// goroutines. Each encryption operation generates a unique nonce independently.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes (256 bits) and should be generated using
// crypto/rand. Returns an error if the key size is invalid or cipher
// initialization fails.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with optional additional
// authenticated data.
//
// The AAD is authenticated but not encrypted, binding the ciphertext to its
// context (e.g., a record id) so it cannot be replayed elsewhere. Pass nil
// if no additional data needs to be authenticated.
//
// A unique 12-byte nonce is generated per call using crypto/rand and must be
// stored alongside the ciphertext; with GCM a nonce must never be reused
// under the same key.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt decrypts ciphertext using AES-256-GCM with the provided nonce and AAD.
//
// The same AAD used during encryption must be provided. The authentication
// tag is verified before any plaintext is returned; on verification failure
// no plaintext is produced.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
