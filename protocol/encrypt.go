package protocol

import (
	"fmt"

	"github.com/datazip-inc/sparkify/utils"
	"github.com/spf13/cobra"
)

// encryptCmd prints the config file encrypted with --encryption-key, ready to be passed back with the same key.
var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "encrypt the config file with the encryption key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		encrypted, err := utils.EncryptFile(configPath)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), encrypted)
		return err
	},
}
