package protocol

import (
	"fmt"
	"time"

	"github.com/datazip-inc/sparkify/utils"
	"github.com/datazip-inc/sparkify/utils/logger"
	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:     "sync",
	Short:   "sparkify sync command",
	PreRunE: loadConfigE,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSync(cmd)
	},
}

func runSync(cmd *cobra.Command) error {
	ctx := cmd.Context()
	// setup connector first
	if err := connector.Setup(ctx); err != nil {
		return fmt.Errorf("failed to setup %s connection: %s", connector.Type(), err)
	}
	defer connector.Close()

	logger.Infof("Running %s sync with config[%s] fingerprint[%s]", connector.Type(), configPath, utils.ComputeConfigHash(configPath))
	start := time.Now()
	stats, err := connector.Sync(ctx)
	if stats != nil {
		for _, stage := range stats.Stages {
			logger.Infof("Stage[%s]: %d/%d processed, %d skipped", stage.Name, stage.Processed, stage.Total, stage.Skipped)
		}
		if ferr := logger.FileLogger(stats, "stats", "json"); ferr != nil {
			logger.Warnf("failed to save run stats: %s", ferr)
		}
	}
	if err != nil {
		return fmt.Errorf("error occurred while syncing: %s", err)
	}

	logger.Infof("Sync run[%s] completed in %s", stats.RunID, time.Since(start).Round(time.Millisecond))
	return nil
}
