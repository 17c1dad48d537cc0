package driver

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/types"
	"github.com/datazip-inc/sparkify/utils"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// autoJSONPath lets COPY map JSON keys to columns by name
const autoJSONPath = "auto"

// Config mirrors the sections of dwh.cfg
type Config struct {
	Cluster     ClusterConfig     `ini:"cluster" json:"cluster"`
	IAMRole     IAMRoleConfig     `ini:"iam_role" json:"iam_role"`
	S3          S3Config          `ini:"s3" json:"s3"`
	AWS         AWSConfig         `ini:"aws" json:"aws"`
	ErrorPolicy types.ErrorPolicy `ini:"-" json:"-"`
	Connection  *url.URL          `ini:"-" json:"-"`
}

type ClusterConfig struct {
	Host       string `ini:"host" json:"host"`
	DBName     string `ini:"db_name" json:"db_name"`
	DBUser     string `ini:"db_user" json:"db_user"`
	DBPassword string `ini:"db_password" json:"db_password"`
	DBPort     int    `ini:"db_port" json:"db_port"`
	SSLMode    string `ini:"ssl_mode" json:"ssl_mode,omitempty"`
}

type IAMRoleConfig struct {
	ARN string `ini:"arn" json:"arn"`
}

type S3Config struct {
	LogData     string `ini:"log_data" json:"log_data"`
	LogJSONPath string `ini:"log_jsonpath" json:"log_jsonpath"`
	SongData    string `ini:"song_data" json:"song_data"`
	Region      string `ini:"region" json:"region"`
	// Endpoint points the preflight at an S3-compatible service
	Endpoint string `ini:"endpoint" json:"endpoint,omitempty"`
}

// AWSConfig holds optional static credentials for the S3 preflight; without them the default
// credential chain is used. The COPY statements always authenticate with the IAM role.
type AWSConfig struct {
	Key    string `ini:"key" json:"key,omitempty"`
	Secret string `ini:"secret" json:"secret,omitempty"`
}

// ParseConfig reads an INI formatted warehouse config. Section and key names are case-insensitive.
func ParseConfig(data []byte) (*Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read warehouse config: %s", err)
	}

	config := &Config{}
	sections := []struct {
		name   string
		target any
	}{
		{constants.WarehouseCluster, &config.Cluster},
		{constants.WarehouseIAMRole, &config.IAMRole},
		{constants.WarehouseS3, &config.S3},
		{constants.WarehouseAWS, &config.AWS},
	}
	for _, section := range sections {
		if err := file.Section(section.name).MapTo(section.target); err != nil {
			return nil, fmt.Errorf("failed to decode [%s]: %s", section.name, err)
		}
	}
	return config, nil
}

func (c *Config) Validate() error {
	for _, value := range []*string{
		&c.Cluster.Host, &c.Cluster.DBName, &c.Cluster.DBUser, &c.Cluster.DBPassword, &c.Cluster.SSLMode,
		&c.IAMRole.ARN,
		&c.S3.LogData, &c.S3.LogJSONPath, &c.S3.SongData, &c.S3.Region, &c.S3.Endpoint,
		&c.AWS.Key, &c.AWS.Secret,
	} {
		*value = unquote(*value)
	}

	if c.Cluster.Host == "" {
		return fmt.Errorf("[cluster] host is required")
	}
	if c.Cluster.DBName == "" {
		return fmt.Errorf("[cluster] db_name is required")
	}
	if c.Cluster.DBUser == "" {
		return fmt.Errorf("[cluster] db_user is required")
	}
	if c.Cluster.DBPort == 0 {
		c.Cluster.DBPort = constants.DefaultRedshiftPort
	}
	if c.Cluster.DBPort < 0 || c.Cluster.DBPort > 65535 {
		return fmt.Errorf("invalid port number: must be between 1 and 65535")
	}
	c.Cluster.SSLMode = utils.Ternary(c.Cluster.SSLMode == "", string(utils.SSLModeRequire), c.Cluster.SSLMode).(string)
	switch utils.SSLMode(c.Cluster.SSLMode) {
	case utils.SSLModeDisable, utils.SSLModeRequire, utils.SSLModeVerifyCA, utils.SSLModeVerifyFull:
	default:
		return fmt.Errorf("invalid [cluster] ssl_mode: %s", c.Cluster.SSLMode)
	}

	if !strings.HasPrefix(c.IAMRole.ARN, "arn:") {
		return fmt.Errorf("[iam_role] arn must be an IAM role ARN, got %q", c.IAMRole.ARN)
	}

	for name, uri := range map[string]string{"log_data": c.S3.LogData, "song_data": c.S3.SongData} {
		if _, _, err := parseS3URI(uri); err != nil {
			return fmt.Errorf("[s3] %s: %s", name, err)
		}
	}
	c.S3.LogJSONPath = utils.Ternary(c.S3.LogJSONPath == "", autoJSONPath, c.S3.LogJSONPath).(string)
	if c.S3.LogJSONPath != autoJSONPath {
		if _, _, err := parseS3URI(c.S3.LogJSONPath); err != nil {
			return fmt.Errorf("[s3] log_jsonpath: %s", err)
		}
	}
	if c.S3.Region == "" {
		return fmt.Errorf("[s3] region is required")
	}
	if (c.AWS.Key != "") != (c.AWS.Secret != "") {
		return fmt.Errorf("[aws] key and secret must be provided together or both omitted")
	}

	policy, err := types.ParseErrorPolicy(viper.GetString(constants.ErrorPolicy))
	if err != nil {
		return err
	}
	c.ErrorPolicy = policy

	query := url.Values{}
	query.Set("sslmode", c.Cluster.SSLMode)
	c.Connection = &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Cluster.DBUser, c.Cluster.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.Cluster.Host, c.Cluster.DBPort),
		Path:     "/" + c.Cluster.DBName,
		RawQuery: query.Encode(),
	}
	return nil
}

// unquote strips the quotes dwh.cfg values are often written with
func unquote(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '\'' || value[0] == '"') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1]
	}
	return value
}
