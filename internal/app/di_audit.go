package app

import (
	"fmt"
	"sync"

	auditRepository "github.com/allisson/medgate/internal/audit/repository"
	auditUseCase "github.com/allisson/medgate/internal/audit/usecase"
)

// auditDependencies holds the audit log components.
type auditDependencies struct {
	auditRepositoryInit sync.Once
	auditRepository     auditUseCase.AuditRepository

	auditUseCaseInit sync.Once
	auditUseCase     auditUseCase.AuditUseCase
}

// AuditRepository returns the audit entry repository based on database driver.
func (c *Container) AuditRepository() (auditUseCase.AuditRepository, error) {
	var err error
	c.deps.audit.auditRepositoryInit.Do(func() {
		c.deps.audit.auditRepository, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepository"]; exists {
		return nil, storedErr
	}
	return c.deps.audit.auditRepository, nil
}

// AuditUseCase returns the audit log use case.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	var err error
	c.deps.audit.auditUseCaseInit.Do(func() {
		c.deps.audit.auditUseCase, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.deps.audit.auditUseCase, nil
}

// initAuditRepository creates the audit repository based on the database driver.
func (c *Container) initAuditRepository() (auditUseCase.AuditRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return auditRepository.NewPostgreSQLAuditRepository(db), nil
	case "mysql":
		return auditRepository.NewMySQLAuditRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditUseCase creates the audit use case with all its dependencies.
func (c *Container) initAuditUseCase() (auditUseCase.AuditUseCase, error) {
	auditRepo, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}

	keychain, err := c.MasterKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key chain for audit use case: %w", err)
	}

	return auditUseCase.NewAuditUseCase(auditRepo, c.AuditSigner(), keychain), nil
}
