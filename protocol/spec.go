package protocol

import (
	"fmt"

	"github.com/datazip-inc/sparkify/utils/logger"
	"github.com/datazip-inc/sparkify/utils/spec"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "spec command",
	RunE: func(_ *cobra.Command, _ []string) error {
		uiSchema, err := spec.LoadUISchema(connector.Type())
		if err != nil {
			return fmt.Errorf("failed to get ui schema: %v", err)
		}

		specSchema := map[string]interface{}{
			"config":   connector.Spec(),
			"uischema": json.RawMessage(uiSchema),
		}

		out, err := json.MarshalIndent(specSchema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal spec of %s: %s", connector.Type(), err)
		}
		logger.Info(string(out))
		return nil
	},
}
