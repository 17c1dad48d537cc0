package utils

import "fmt"

type SSLMode string

const (
	SSLModeDisable    SSLMode = "disable"
	SSLModeRequire    SSLMode = "require"
	SSLModeVerifyCA   SSLMode = "verify-ca"
	SSLModeVerifyFull SSLMode = "verify-full"
)

type SSLConfig struct {
	Mode       SSLMode `json:"mode"`
	ServerCA   string  `json:"server_ca,omitempty"`
	ClientCert string  `json:"client_cert,omitempty"`
	ClientKey  string  `json:"client_key,omitempty"`
}

func (s *SSLConfig) Validate() error {
	switch s.Mode {
	case SSLModeDisable, SSLModeRequire:
	case SSLModeVerifyCA, SSLModeVerifyFull:
		if s.ServerCA == "" {
			return fmt.Errorf("server_ca is required for ssl mode %s", s.Mode)
		}
	default:
		return fmt.Errorf("invalid ssl mode: %s", s.Mode)
	}

	if (s.ClientCert == "") != (s.ClientKey == "") {
		return fmt.Errorf("client_cert and client_key must be provided together")
	}
	return nil
}
