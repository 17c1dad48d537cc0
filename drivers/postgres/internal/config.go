package driver

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/types"
	"github.com/datazip-inc/sparkify/utils"
	"github.com/spf13/viper"
)

type Config struct {
	Connection       *url.URL          `json:"-"`
	Host             string            `json:"host"`
	Port             int               `json:"port"`
	Database         string            `json:"database"`
	Username         string            `json:"username"`
	Password         string            `json:"password"`
	JDBCURLParams    map[string]string `json:"jdbc_url_params"`
	SSLConfiguration *utils.SSLConfig  `json:"ssl"`
	SSHConfig        *utils.SSHConfig  `json:"ssh_config"`
	// SongData and LogData are the roots of the JSON datasets
	SongData    string            `json:"song_data"`
	LogData     string            `json:"log_data"`
	ErrorPolicy types.ErrorPolicy `json:"error_policy"`
}

func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("empty host name")
	} else if strings.Contains(c.Host, "https") || strings.Contains(c.Host, "http") {
		return fmt.Errorf("host should not contain http or https")
	}

	if c.Port == 0 {
		c.Port = constants.DefaultPostgresPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: must be between 1 and 65535")
	}

	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}

	c.SongData = utils.Ternary(c.SongData == "", constants.DefaultSongDataPath, c.SongData).(string)
	c.LogData = utils.Ternary(c.LogData == "", constants.DefaultLogDataPath, c.LogData).(string)

	// the --error-policy flag wins over the config file
	policy, err := types.ParseErrorPolicy(utils.Ternary(viper.GetString(constants.ErrorPolicy) != "", viper.GetString(constants.ErrorPolicy), string(c.ErrorPolicy)).(string))
	if err != nil {
		return err
	}
	c.ErrorPolicy = policy

	if c.SSHConfig.Enabled() {
		if err := c.SSHConfig.Validate(); err != nil {
			return fmt.Errorf("failed to validate ssh config: %s", err)
		}
	}

	// Add the connection parameters to the url
	parsed := &url.URL{
		Scheme: "postgres",
		User:   utils.Ternary(c.Password != "", url.UserPassword(c.Username, c.Password), url.User(c.Username)).(*url.Userinfo),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}

	query := parsed.Query()

	// Set additional connection parameters if available
	for k, v := range c.JDBCURLParams {
		query.Add(k, v)
	}

	if c.SSLConfiguration == nil {
		c.SSLConfiguration = &utils.SSLConfig{
			Mode: utils.SSLModeDisable,
		}
	}

	if err := c.SSLConfiguration.Validate(); err != nil {
		return fmt.Errorf("failed to validate ssl config: %s", err)
	}
	query.Set("sslmode", string(c.SSLConfiguration.Mode))

	if c.SSLConfiguration.ServerCA != "" {
		query.Add("sslrootcert", c.SSLConfiguration.ServerCA)
	}

	if c.SSLConfiguration.ClientCert != "" {
		query.Add("sslcert", c.SSLConfiguration.ClientCert)
	}

	if c.SSLConfiguration.ClientKey != "" {
		query.Add("sslkey", c.SSLConfiguration.ClientKey)
	}
	parsed.RawQuery = query.Encode()
	c.Connection = parsed

	return nil
}
