package app

import (
	"context"
	"fmt"
	"sync"

	gatewayUseCase "github.com/allisson/medgate/internal/gateway/usecase"
	recordRepository "github.com/allisson/medgate/internal/record/repository"
	recordService "github.com/allisson/medgate/internal/record/service"
)

// gatewayDependencies holds the record store and the access gateway.
type gatewayDependencies struct {
	recordRepositoryInit sync.Once
	recordRepository     gatewayUseCase.RecordRepository

	anonymizerInit sync.Once
	anonymizer     recordService.Anonymizer

	gatewayInit sync.Once
	gateway     gatewayUseCase.Gateway
}

// RecordRepository returns the health record repository based on database driver.
func (c *Container) RecordRepository() (gatewayUseCase.RecordRepository, error) {
	var err error
	c.deps.gateway.recordRepositoryInit.Do(func() {
		c.deps.gateway.recordRepository, err = c.initRecordRepository()
		if err != nil {
			c.initErrors["recordRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordRepository"]; exists {
		return nil, storedErr
	}
	return c.deps.gateway.recordRepository, nil
}

// Anonymizer returns the pseudonym assignment service, seeded from the
// highest sequence already assigned in the store so restarts never reuse
// a pseudonym.
func (c *Container) Anonymizer() (recordService.Anonymizer, error) {
	var err error
	c.deps.gateway.anonymizerInit.Do(func() {
		c.deps.gateway.anonymizer, err = c.initAnonymizer()
		if err != nil {
			c.initErrors["anonymizer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["anonymizer"]; exists {
		return nil, storedErr
	}
	return c.deps.gateway.anonymizer, nil
}

// Gateway returns the access gateway.
func (c *Container) Gateway() (gatewayUseCase.Gateway, error) {
	var err error
	c.deps.gateway.gatewayInit.Do(func() {
		c.deps.gateway.gateway, err = c.initGateway()
		if err != nil {
			c.initErrors["gateway"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gateway"]; exists {
		return nil, storedErr
	}
	return c.deps.gateway.gateway, nil
}

// initRecordRepository creates the record repository based on the database driver.
func (c *Container) initRecordRepository() (gatewayUseCase.RecordRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for record repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return recordRepository.NewPostgreSQLRecordRepository(db), nil
	case "mysql":
		return recordRepository.NewMySQLRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAnonymizer creates the anonymizer seeded from the store.
func (c *Container) initAnonymizer() (recordService.Anonymizer, error) {
	recordRepo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for anonymizer: %w", err)
	}

	seed, err := recordRepo.MaxPseudonymSeq(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load pseudonym seed: %w", err)
	}

	return recordService.NewAnonymizer(seed), nil
}

// initGateway creates the access gateway with all its dependencies.
func (c *Container) initGateway() (gatewayUseCase.Gateway, error) {
	authUC, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for gateway: %w", err)
	}

	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for gateway: %w", err)
	}

	consentUC, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for gateway: %w", err)
	}

	recordRepo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for gateway: %w", err)
	}

	fieldCipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for gateway: %w", err)
	}

	anonymizer, err := c.Anonymizer()
	if err != nil {
		return nil, fmt.Errorf("failed to get anonymizer for gateway: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for gateway: %w", err)
	}

	gateway := gatewayUseCase.NewGateway(
		authUC,
		auditUC,
		consentUC,
		recordRepo,
		fieldCipher,
		anonymizer,
		txManager,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for gateway: %w", err)
		}
		return gatewayUseCase.NewGatewayWithMetrics(gateway, businessMetrics), nil
	}

	return gateway, nil
}
