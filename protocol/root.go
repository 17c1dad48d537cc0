package protocol

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/drivers/abstract"
	"github.com/datazip-inc/sparkify/utils"
	"github.com/datazip-inc/sparkify/utils/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath    string
	noSave        bool
	encryptionKey string
	errorPolicy   string

	commands  = []*cobra.Command{}
	connector *abstract.AbstractDriver
)

// RootCmd represents the base command. Called without a subcommand it runs a sync with the
// default config path of the driver.
var RootCmd = &cobra.Command{
	Use:   "sparkify",
	Short: "sparkify song play ETL",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// set global variables
		configPath = utils.Ternary(configPath == "", connector.DefaultConfigPath(), configPath).(string)

		viper.SetDefault(constants.ConfigFolder, os.TempDir())
		if !noSave {
			viper.Set(constants.ConfigFolder, filepath.Dir(configPath))
		}
		viper.Set(constants.NoSave, noSave)

		if encryptionKey != "" {
			viper.Set(constants.EncryptionKey, encryptionKey)
		}
		if errorPolicy != "" {
			viper.Set(constants.ErrorPolicy, errorPolicy)
		}

		// logger uses CONFIG_FOLDER
		logger.Init(utils.ULID())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			if err := loadConfig(); err != nil {
				return err
			}
			return runSync(cmd)
		}

		if ok := utils.IsValidSubcommand(commands, args[0]); !ok {
			return fmt.Errorf("'%s' is an invalid command. Use 'sparkify --help' to display usage guide", args[0])
		}
		return nil
	},
}

func CreateRootCommand(driver abstract.DriverInterface) *cobra.Command {
	RootCmd.AddCommand(commands...)
	connector = abstract.NewAbstractDriver(driver)
	RootCmd.Use = driver.Type()

	return RootCmd
}

func loadConfig() error {
	if err := connector.LoadConfig(configPath); err != nil {
		return fmt.Errorf("failed to load config[%s]: %s", configPath, err)
	}
	return nil
}

func loadConfigE(_ *cobra.Command, _ []string) error {
	return loadConfig()
}

func init() {
	commands = append(commands, specCmd, checkCmd, createTablesCmd, dropTablesCmd, syncCmd, encryptCmd)
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "", "", "(Optional) Config for connector, defaults to the driver's config file in the working directory")
	RootCmd.PersistentFlags().BoolVarP(&noSave, "no-save", "", false, "(Optional) Flag to skip logging artifacts in file")
	RootCmd.PersistentFlags().StringVarP(&encryptionKey, "encryption-key", "", "", "(Optional) Encryption key for the config file. Provide the ARN of a KMS key or a custom string used to encrypt the config.")
	RootCmd.PersistentFlags().StringVarP(&errorPolicy, "error-policy", "", "", "(Optional) What to do when a file or statement fails: fail (default) or skip")
	// Disable Cobra CLI's built-in usage and error handling
	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true
}
