// Command republica runs the shared-household bill ledger server.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/republica/internal/config"
	"github.com/mmynk/republica/pkg/logging"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "republica",
	Short:         "Shared-household bill ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file read before the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadConfig reads settings and configures logging from them.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
