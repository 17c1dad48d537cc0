package protocol

import (
	"context"
	"fmt"

	"github.com/datazip-inc/sparkify/utils/logger"
	"github.com/spf13/cobra"
)

var createTablesCmd = &cobra.Command{
	Use:     "create-tables",
	Short:   "create the staging, fact and dimension tables",
	PreRunE: loadConfigE,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withConnection(cmd.Context(), "create tables", func(ctx context.Context) error {
			return connector.CreateTables(ctx)
		})
	},
}

var dropTablesCmd = &cobra.Command{
	Use:     "drop-tables",
	Short:   "drop the staging, fact and dimension tables",
	PreRunE: loadConfigE,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withConnection(cmd.Context(), "drop tables", func(ctx context.Context) error {
			return connector.DropTables(ctx)
		})
	},
}

func withConnection(ctx context.Context, action string, fn func(ctx context.Context) error) error {
	if err := connector.Setup(ctx); err != nil {
		return fmt.Errorf("failed to setup %s connection: %s", connector.Type(), err)
	}
	defer connector.Close()

	if err := fn(ctx); err != nil {
		return fmt.Errorf("failed to %s: %s", action, err)
	}
	logger.Infof("%s: %s succeeded", connector.Type(), action)
	return nil
}
