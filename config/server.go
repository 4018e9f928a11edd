package config

import (
	"fmt"
	"net/url"

	"github.com/kilianp07/mealplan/auth"
)

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	Addr string `json:"addr"`
	// Token protects mutating endpoints when set.
	Token               string `json:"token"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 10
	}
	if c.WriteTimeoutSeconds <= 0 {
		c.WriteTimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

// ClientConfig is used by the CLI when it sends requests to a remote server.
type ClientConfig struct {
	// Server is the base URL, e.g. http://localhost:8080.
	Server string    `json:"server"`
	Auth   auth.Conf `json:"auth"`
}

// Validate checks the URL and credentials.
func (c ClientConfig) Validate() error {
	if c.Server != "" {
		u, err := url.Parse(c.Server)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("server must be an absolute URL, got %q", c.Server)
		}
	}
	return c.Auth.Validate()
}
