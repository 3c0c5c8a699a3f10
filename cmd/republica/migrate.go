package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/republica/internal/storage/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", cfg.DBPath, err)
		}
		defer store.Close()

		slog.Info("Database schema is up to date", "database", cfg.DBPath)
		return nil
	},
}
