package app

import (
	"fmt"
	"sync"

	authRepository "github.com/allisson/medgate/internal/auth/repository"
	authService "github.com/allisson/medgate/internal/auth/service"
	authUseCase "github.com/allisson/medgate/internal/auth/usecase"
)

// authDependencies holds the authentication components and their guards.
type authDependencies struct {
	secretServiceInit sync.Once
	secretService     authService.SecretService

	tokenServiceInit sync.Once
	tokenService     authService.TokenService

	userRepositoryInit sync.Once
	userRepository     authUseCase.UserRepository

	sessionRepositoryInit sync.Once
	sessionRepository     authUseCase.SessionRepository

	authUseCaseInit sync.Once
	authUseCase     authUseCase.AuthUseCase

	userUseCaseInit sync.Once
	userUseCase     authUseCase.UserUseCase
}

// SecretService returns the Argon2id secret hashing service.
func (c *Container) SecretService() authService.SecretService {
	c.deps.auth.secretServiceInit.Do(func() {
		c.deps.auth.secretService = authService.NewSecretService()
	})
	return c.deps.auth.secretService
}

// TokenService returns the session token service.
func (c *Container) TokenService() authService.TokenService {
	c.deps.auth.tokenServiceInit.Do(func() {
		c.deps.auth.tokenService = authService.NewTokenService()
	})
	return c.deps.auth.tokenService
}

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (authUseCase.UserRepository, error) {
	var err error
	c.deps.auth.userRepositoryInit.Do(func() {
		c.deps.auth.userRepository, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepository"]; exists {
		return nil, storedErr
	}
	return c.deps.auth.userRepository, nil
}

// SessionRepository returns the session repository based on database driver.
func (c *Container) SessionRepository() (authUseCase.SessionRepository, error) {
	var err error
	c.deps.auth.sessionRepositoryInit.Do(func() {
		c.deps.auth.sessionRepository, err = c.initSessionRepository()
		if err != nil {
			c.initErrors["sessionRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionRepository"]; exists {
		return nil, storedErr
	}
	return c.deps.auth.sessionRepository, nil
}

// AuthUseCase returns the authentication use case.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.deps.auth.authUseCaseInit.Do(func() {
		c.deps.auth.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.deps.auth.authUseCase, nil
}

// UserUseCase returns the user management use case.
func (c *Container) UserUseCase() (authUseCase.UserUseCase, error) {
	var err error
	c.deps.auth.userUseCaseInit.Do(func() {
		c.deps.auth.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.deps.auth.userUseCase, nil
}

// initUserRepository creates the user repository based on the database driver.
func (c *Container) initUserRepository() (authUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLUserRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSessionRepository creates the session repository based on the database driver.
func (c *Container) initSessionRepository() (authUseCase.SessionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for session repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLSessionRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuthUseCase creates the authentication use case with all its dependencies.
func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	userRepository, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for auth use case: %w", err)
	}

	sessionRepository, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for auth use case: %w", err)
	}

	useCase, err := authUseCase.NewAuthUseCase(
		c.config,
		userRepository,
		sessionRepository,
		c.SecretService(),
		c.TokenService(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth use case: %w", err)
	}

	return useCase, nil
}

// initUserUseCase creates the user management use case with all its dependencies.
func (c *Container) initUserUseCase() (authUseCase.UserUseCase, error) {
	userRepository, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	return authUseCase.NewUserUseCase(userRepository, c.SecretService()), nil
}
