package protocol

import (
	"fmt"

	"github.com/datazip-inc/sparkify/utils/logger"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "check connection and inputs",
	PreRunE: loadConfigE,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := connector.Setup(cmd.Context()); err != nil {
			return fmt.Errorf("connection check failed: %s", err)
		}
		defer connector.Close()

		if err := connector.Check(cmd.Context()); err != nil {
			return fmt.Errorf("check failed: %s", err)
		}
		logger.Infof("%s connection check succeeded", connector.Type())
		return nil
	},
}
