// Package service provides integrity protection for audit entries: each
// entry carries an HMAC-SHA256 signature computed over its canonical byte
// form with a key derived from the master key.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	cryptoDomain "github.com/allisson/medgate/internal/crypto/domain"
)

// AuditSigner signs and verifies audit entries.
type AuditSigner interface {
	// Sign computes the HMAC-SHA256 signature for the entry's canonical
	// form. The signature does not cover SequenceID, which the store
	// assigns after signing.
	Sign(masterKey []byte, entry *auditDomain.AuditEntry) ([]byte, error)

	// Verify checks the entry's stored signature. Returns nil if valid,
	// ErrSignatureInvalid if the entry was altered after signing.
	Verify(masterKey []byte, entry *auditDomain.AuditEntry) error
}

type auditSigner struct{}

// NewAuditSigner creates an HMAC-based audit entry signer using HKDF-SHA256
// for key derivation and HMAC-SHA256 for signature generation.
func NewAuditSigner() AuditSigner {
	return &auditSigner{}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from
// the master key, separating signing key usage from encryption key usage.
// Info parameter: "audit-entry-signing-v1" (versioned for future algorithm changes).
func (a *auditSigner) deriveSigningKey(masterKey []byte) ([]byte, error) {
	info := []byte("audit-entry-signing-v1")
	hash := sha256.New
	hkdf := hkdf.New(hash, masterKey, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalize converts an audit entry to its canonical byte representation.
// Format: actor_id || attempted_username || role || action || outcome ||
// detail || created_at, with length prefixes on variable-length fields to
// prevent ambiguity.
func (a *auditSigner) canonicalize(entry *auditDomain.AuditEntry) []byte {
	buf := make([]byte, 0, 512)

	buf = append(buf, entry.ActorID[:]...)
	buf = appendLengthPrefixed(buf, []byte(entry.AttemptedUsername))
	buf = appendLengthPrefixed(buf, []byte(entry.Role))
	buf = appendLengthPrefixed(buf, []byte(string(entry.Action)))
	buf = appendLengthPrefixed(buf, []byte(string(entry.Outcome)))
	buf = appendLengthPrefixed(buf, []byte(entry.Detail))

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(entry.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Panics if data length exceeds uint32 max to prevent integer overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates the HMAC-SHA256 signature for the audit entry.
func (a *auditSigner) Sign(masterKey []byte, entry *auditDomain.AuditEntry) ([]byte, error) {
	signingKey, err := a.deriveSigningKey(masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer cryptoDomain.Zero(signingKey)

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(a.canonicalize(entry))

	return mac.Sum(nil), nil
}

// Verify checks if the audit entry signature is valid.
func (a *auditSigner) Verify(masterKey []byte, entry *auditDomain.AuditEntry) error {
	expectedSig, err := a.Sign(masterKey, entry)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(entry.Signature, expectedSig) {
		return auditDomain.ErrSignatureInvalid
	}

	return nil
}
