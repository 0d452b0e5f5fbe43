package domain

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
)

// MasterKey is the root key material for field-level encryption and audit
// entry signing. Loaded once at process start; key rotation is out of scope
// for a process lifetime, but the keychain below keeps the shape needed to
// introduce key-id-tagged ciphertexts later without breaking callers.
type MasterKey struct {
	ID  string
	Key []byte
}

// MasterKeyChain manages a collection of master keys with one designated as
// active. The active key encrypts new data; older keys remain available so
// ciphertext written under them stays readable during a future rotation.
//
// Thread safety: the keychain uses sync.Map internally for concurrent access.
type MasterKeyChain struct {
	activeID string
	keys     sync.Map
}

// ActiveMasterKeyID returns the ID of the currently active master key.
func (m *MasterKeyChain) ActiveMasterKeyID() string {
	return m.activeID
}

// Get retrieves a master key from the keychain by its ID.
func (m *MasterKeyChain) Get(id string) (*MasterKey, bool) {
	if masterKey, ok := m.keys.Load(id); ok {
		return masterKey.(*MasterKey), ok
	}

	return nil, false
}

// Active returns the active master key, or false if the keychain is empty
// or the active ID is missing.
func (m *MasterKeyChain) Active() (*MasterKey, bool) {
	if m == nil || m.activeID == "" {
		return nil, false
	}
	return m.Get(m.activeID)
}

// Range calls fn for each master key in the chain. Iteration stops when fn
// returns false. Order is not specified.
func (m *MasterKeyChain) Range(fn func(masterKey *MasterKey) bool) {
	m.keys.Range(func(_, key any) bool {
		if mk, ok := key.(*MasterKey); ok {
			return fn(mk)
		}
		return true
	})
}

// Close securely clears all master keys from memory and resets the keychain.
// Call during shutdown so key material does not outlive the process's need for it.
func (m *MasterKeyChain) Close() {
	m.keys.Range(func(id, key any) bool {
		if mk, ok := key.(*MasterKey); ok {
			Zero(mk.Key)
		}
		m.keys.Delete(id)
		return true
	})
	m.activeID = ""
}

// LoadMasterKeyChainFromEnv loads master keys from environment variables.
//
// Reads two environment variables:
//   - MASTER_KEYS: comma-separated list of entries in format "id:base64key"
//   - ACTIVE_MASTER_KEY_ID: ID of the key used for new encryptions
//
// Each key must be exactly 32 bytes when base64-decoded. The keychain is the
// process's only key source: there is no remote key provider, matching the
// single-static-key-per-process model.
//
// Returns:
//   - A fully initialized MasterKeyChain ready for use
//   - ErrMasterKeysNotSet if MASTER_KEYS is not configured
//   - ErrActiveMasterKeyIDNotSet if ACTIVE_MASTER_KEY_ID is not configured
//   - ErrInvalidMasterKeysFormat if an entry is not "id:base64key"
//   - ErrInvalidMasterKeyBase64 if base64 decoding fails
//   - ErrInvalidKeySize if a key is not exactly 32 bytes
//   - ErrActiveMasterKeyNotFound if the active key ID is not in the keychain
func LoadMasterKeyChainFromEnv() (*MasterKeyChain, error) {
	raw := os.Getenv("MASTER_KEYS")
	if raw == "" {
		return nil, ErrMasterKeysNotSet
	}

	active := os.Getenv("ACTIVE_MASTER_KEY_ID")
	if active == "" {
		return nil, ErrActiveMasterKeyIDNotSet
	}

	mkc := &MasterKeyChain{activeID: active}

	parts := strings.SplitSeq(raw, ",")
	for part := range parts {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			mkc.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, part)
		}
		id := p[0]
		key, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidMasterKeyBase64, id, err)
		}
		if len(key) != 32 {
			Zero(key)
			mkc.Close()
			return nil, fmt.Errorf(
				"%w: master key %s must be 32 bytes, got %d",
				ErrInvalidKeySize,
				id,
				len(key),
			)
		}
		mkc.keys.Store(id, &MasterKey{ID: id, Key: key})
	}

	if _, ok := mkc.Get(active); !ok {
		mkc.Close()
		return nil, fmt.Errorf("%w: ACTIVE_MASTER_KEY_ID=%s", ErrActiveMasterKeyNotFound, active)
	}

	return mkc, nil
}
