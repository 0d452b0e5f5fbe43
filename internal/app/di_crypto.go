package app

import (
	"fmt"
	"sync"

	auditService "github.com/allisson/medgate/internal/audit/service"
	cryptoDomain "github.com/allisson/medgate/internal/crypto/domain"
	cryptoService "github.com/allisson/medgate/internal/crypto/service"
)

// cryptoDependencies holds the key material and cipher components.
type cryptoDependencies struct {
	masterKeyChainInit sync.Once
	masterKeyChain     *cryptoDomain.MasterKeyChain

	aeadManagerInit sync.Once
	aeadManager     cryptoService.AEADManager

	fieldCipherInit sync.Once
	fieldCipher     cryptoService.FieldCipher

	auditSignerInit sync.Once
	auditSigner     auditService.AuditSigner
}

// MasterKeyChain returns the master key chain loaded from the environment.
func (c *Container) MasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	var err error
	c.deps.crypto.masterKeyChainInit.Do(func() {
		c.deps.crypto.masterKeyChain, err = cryptoDomain.LoadMasterKeyChainFromEnv()
		if err != nil {
			c.initErrors["masterKeyChain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeyChain"]; exists {
		return nil, storedErr
	}
	return c.deps.crypto.masterKeyChain, nil
}

// AEADManager returns the AEAD cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.deps.crypto.aeadManagerInit.Do(func() {
		c.deps.crypto.aeadManager = cryptoService.NewAEADManager()
	})
	return c.deps.crypto.aeadManager
}

// FieldCipher returns the field-level encryption service. The AEAD
// algorithm comes from configuration and is validated at wiring time.
func (c *Container) FieldCipher() (cryptoService.FieldCipher, error) {
	var err error
	c.deps.crypto.fieldCipherInit.Do(func() {
		c.deps.crypto.fieldCipher, err = c.initFieldCipher()
		if err != nil {
			c.initErrors["fieldCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldCipher"]; exists {
		return nil, storedErr
	}
	return c.deps.crypto.fieldCipher, nil
}

// AuditSigner returns the HMAC audit entry signer.
func (c *Container) AuditSigner() auditService.AuditSigner {
	c.deps.crypto.auditSignerInit.Do(func() {
		c.deps.crypto.auditSigner = auditService.NewAuditSigner()
	})
	return c.deps.crypto.auditSigner
}

// initFieldCipher creates the field cipher from the configured algorithm
// and the active master key.
func (c *Container) initFieldCipher() (cryptoService.FieldCipher, error) {
	keychain, err := c.MasterKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key chain for field cipher: %w", err)
	}

	alg, err := cryptoDomain.ParseAlgorithm(c.config.FieldCipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse field cipher algorithm: %w", err)
	}

	fieldCipher, err := cryptoService.NewFieldCipher(keychain, alg, c.AEADManager())
	if err != nil {
		return nil, fmt.Errorf("failed to create field cipher: %w", err)
	}

	return fieldCipher, nil
}
