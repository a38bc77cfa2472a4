package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/draft-state/internal/config"
	"github.com/riskibarqy/draft-state/internal/platform/logging"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer logger.Sync()

	root := &cobra.Command{
		Use:           "draftops",
		Short:         "Draft state reconciliation and snapshot synchronization",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newCleanCommand(cfg, logger),
		newTransfersCommand(cfg, logger),
		newSyncCommand(cfg, logger),
		newBackupCommand(cfg, logger),
		newProbeCommand(cfg, logger),
	)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
