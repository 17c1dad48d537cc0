package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHConfig describes a bastion host used to reach a database that is not publicly exposed
type SSHConfig struct {
	Host       string `json:"host,omitempty"`
	Port       int    `json:"port,omitempty"`
	Username   string `json:"username,omitempty"`
	PrivateKey string `json:"private_key,omitempty"`
	Passphrase string `json:"passphrase,omitempty"`
	Password   string `json:"password,omitempty"`
}

func (c *SSHConfig) Enabled() bool {
	return c != nil && c.Host != ""
}

func (c *SSHConfig) Validate() error {
	if c.Host == "" {
		return errors.New("ssh host is required")
	}

	if c.Port == 0 {
		c.Port = 22
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("invalid ssh port number: must be between 1 and 65535")
	}

	if c.Username == "" {
		return errors.New("ssh username is required")
	}

	if c.PrivateKey == "" && c.Password == "" {
		return errors.New("private key or password is required")
	}

	return nil
}

// Tunnel forwards database connections through an SSH bastion
type Tunnel struct {
	client *ssh.Client
}

// OpenTunnel authenticates against the bastion and keeps the SSH session open until Close
func (c *SSHConfig) OpenTunnel() (*Tunnel, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate ssh config: %s", err)
	}

	var authMethods []ssh.AuthMethod
	if c.Password != "" {
		authMethods = append(authMethods, ssh.Password(c.Password))
	}
	if c.PrivateKey != "" {
		signer, err := ParsePrivateKey(c.PrivateKey, c.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH private key: %s", err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}

	sshCfg := &ssh.ClientConfig{
		User: c.Username,
		Auth: authMethods,
		// TODO: verify the bastion host key against a known_hosts entry from the config
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // #nosec G106
		Timeout:         30 * time.Second,
	}

	client, err := ssh.Dial("tcp", net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), sshCfg)
	if err != nil {
		return nil, fmt.Errorf("ssh dial bastion: %s", err)
	}
	return &Tunnel{client: client}, nil
}

// DialContext matches the dial func signature of database drivers
func (t *Tunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := t.client.Dial(network, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s through ssh tunnel: %s", addr, err)
	}
	return &NoDeadlineConn{Conn: conn}, nil
}

func (t *Tunnel) Close() error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Close()
}

// ParsePrivateKey parses a private key from a PEM string
func ParsePrivateKey(pemText, passphrase string) (ssh.Signer, error) {
	if passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase([]byte(pemText), []byte(passphrase))
	}

	signer, err := ssh.ParsePrivateKey([]byte(pemText))
	if err == nil {
		return signer, nil
	}
	if _, ok := err.(*ssh.PassphraseMissingError); ok {
		return nil, fmt.Errorf("SSH private key appears encrypted, enter the passphrase")
	}
	return nil, err
}

// NoDeadlineConn suppresses the "deadline not supported" errors of ssh channels; the postgres
// driver sets deadlines when a query context is cancelled.
type NoDeadlineConn struct {
	net.Conn
}

func (c *NoDeadlineConn) SetDeadline(_ time.Time) error {
	return nil
}

func (c *NoDeadlineConn) SetReadDeadline(_ time.Time) error {
	return nil
}

func (c *NoDeadlineConn) SetWriteDeadline(_ time.Time) error {
	return nil
}
