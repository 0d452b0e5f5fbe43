package app

import (
	"fmt"
	"sync"

	consentRepository "github.com/allisson/medgate/internal/consent/repository"
	consentUseCase "github.com/allisson/medgate/internal/consent/usecase"
)

// consentDependencies holds the consent bookkeeping components.
type consentDependencies struct {
	consentRepositoryInit sync.Once
	consentRepository     consentUseCase.ConsentRepository

	consentUseCaseInit sync.Once
	consentUseCase     consentUseCase.ConsentUseCase
}

// ConsentRepository returns the consent repository based on database driver.
func (c *Container) ConsentRepository() (consentUseCase.ConsentRepository, error) {
	var err error
	c.deps.consent.consentRepositoryInit.Do(func() {
		c.deps.consent.consentRepository, err = c.initConsentRepository()
		if err != nil {
			c.initErrors["consentRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consentRepository"]; exists {
		return nil, storedErr
	}
	return c.deps.consent.consentRepository, nil
}

// ConsentUseCase returns the consent use case.
func (c *Container) ConsentUseCase() (consentUseCase.ConsentUseCase, error) {
	var err error
	c.deps.consent.consentUseCaseInit.Do(func() {
		c.deps.consent.consentUseCase, err = c.initConsentUseCase()
		if err != nil {
			c.initErrors["consentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consentUseCase"]; exists {
		return nil, storedErr
	}
	return c.deps.consent.consentUseCase, nil
}

// initConsentRepository creates the consent repository based on the database driver.
func (c *Container) initConsentRepository() (consentUseCase.ConsentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for consent repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return consentRepository.NewPostgreSQLConsentRepository(db), nil
	case "mysql":
		return consentRepository.NewMySQLConsentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initConsentUseCase creates the consent use case with all its dependencies.
func (c *Container) initConsentUseCase() (consentUseCase.ConsentUseCase, error) {
	consentRepo, err := c.ConsentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent repository for consent use case: %w", err)
	}

	return consentUseCase.NewConsentUseCase(c.config, consentRepo), nil
}
