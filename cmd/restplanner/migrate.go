package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/rest-planning/internal/persistence/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging)

	storage, err := sqlite.Open(cfg.Storage.DSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		return err
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		return err
	}

	logger.Info("migrations applied")
	return nil
}
