package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/medgate/internal/crypto/domain"
	apperrors "github.com/allisson/medgate/internal/errors"
)

// fieldCipherVersion is the ciphertext format version prefix. A future format
// carrying a key id can be introduced as "v2:" without breaking stored data
// or callers: DecryptField dispatches on the prefix.
const fieldCipherVersion = "v1"

// fieldCipher implements FieldCipher on top of an AEAD created from the
// active master key. Ciphertext format: "v1:" + base64(nonce || ciphertext).
type fieldCipher struct {
	aead AEAD
}

// NewFieldCipher creates a FieldCipher bound to the keychain's active master
// key using the configured AEAD algorithm.
//
// Returns ErrKeyUnavailable if the keychain has no active key, so a process
// started without key material fails at wiring time rather than on the first
// record write.
func NewFieldCipher(
	keychain *cryptoDomain.MasterKeyChain,
	alg cryptoDomain.Algorithm,
	manager AEADManager,
) (FieldCipher, error) {
	masterKey, ok := keychain.Active()
	if !ok {
		return nil, cryptoDomain.ErrKeyUnavailable
	}

	aead, err := manager.CreateCipher(masterKey.Key, alg)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create field cipher")
	}

	return &fieldCipher{aead: aead}, nil
}

// EncryptField encrypts a single field value for storage at rest.
func (f *fieldCipher) EncryptField(plaintext string) (string, error) {
	ciphertext, nonce, err := f.aead.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt field")
	}

	blob := make([]byte, 0, len(nonce)+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)

	return fieldCipherVersion + ":" + base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptField reverses EncryptField.
//
// Malformed input (unknown version, bad base64, truncated blob) and failed
// authentication (tampered or wrong-key ciphertext) both surface as
// ErrDecryptionFailed; the specific cause is logged upstream, not returned,
// so callers cannot be used as a padding oracle.
func (f *fieldCipher) DecryptField(ciphertext string) (string, error) {
	version, encoded, found := strings.Cut(ciphertext, ":")
	if !found || version != fieldCipherVersion {
		return "", fmt.Errorf("%w: unknown ciphertext format", cryptoDomain.ErrDecryptionFailed)
	}

	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", cryptoDomain.ErrDecryptionFailed)
	}

	// 12-byte nonce for both supported AEADs
	const nonceSize = 12
	if len(blob) <= nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", cryptoDomain.ErrDecryptionFailed)
	}

	plaintext, err := f.aead.Decrypt(blob[nonceSize:], blob[:nonceSize], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}
