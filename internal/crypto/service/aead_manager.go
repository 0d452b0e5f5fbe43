package service

import (
	cryptoDomain "github.com/allisson/medgate/internal/crypto/domain"
)

// AEADManagerService implements AEADManager, dispatching on the configured algorithm.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD cipher instance for the specified algorithm.
// Returns ErrInvalidKeySize if the key is not 32 bytes, or
// ErrUnsupportedAlgorithm for an algorithm outside the closed set.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != 32 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	switch alg {
	case cryptoDomain.AESGCM:
		return NewAESGCM(key)
	case cryptoDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}
