package main

import (
	"github.com/firesafe/estimator/internal/config"
	"github.com/firesafe/estimator/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "firesafe-api",
	Short: "FireSafe estimation backend",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
}

// setupLogging installs the global zap logger with the configured level and format.
// The returned function restores the previous logger and flushes the new one.
func setupLogging(cfg *config.Config) (func(), error) {
	logger, err := log.New(log.Options{Level: cfg.Service.LogLevel, Format: cfg.Service.LogFormat})
	if err != nil {
		return nil, err
	}
	undo := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		undo()
	}, nil
}
