package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations executes database migrations based on the configured driver.
// Determines migration path from the driver (postgresql or mysql) and applies
// all pending migrations. Returns nil if no migrations to apply.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	var migrationsPath string
	switch driver {
	case "postgres":
		migrationsPath = "file://migrations/postgresql"
	case "mysql":
		migrationsPath = "file://migrations/mysql"
	default:
		return fmt.Errorf("failed to create migrate instance: unsupported driver %q", driver)
	}

	m, err := migrate.New(migrationsPath, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
