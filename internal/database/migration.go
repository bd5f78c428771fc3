package database

import (
	"fmt"
	"os"
	"path/filepath"

	"logistics/internal/database/migration"

	"go.uber.org/zap"
)

// RunMigrations applies any pending schema migrations. Called once at
// startup, before the first export job can touch the tables.
func RunMigrations(migrationsDir string, logger *zap.Logger) error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations directory: %w", err)
	}

	return migration.Migrate(dbURL, "file://"+absPath, false, logger)
}
