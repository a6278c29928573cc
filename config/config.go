// Package config loads the nodewire CLI and client configuration from
// YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values
const (
	EnvNATSURL   = "NODEWIRE_NATS_URL"
	EnvAuthToken = "NODEWIRE_AUTH_TOKEN"
)

// NATSConfig holds the connection settings
type NATSConfig struct {
	URL      string `yaml:"url"`
	Token    string `yaml:"token,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Name     string `yaml:"name,omitempty"`

	TLSCert string `yaml:"tls_cert,omitempty"`
	TLSKey  string `yaml:"tls_key,omitempty"`
	TLSCA   string `yaml:"tls_ca,omitempty"`
}

// TimeoutConfig holds the client timeouts
type TimeoutConfig struct {
	Request time.Duration `yaml:"request"`
	Connect time.Duration `yaml:"connect"`
}

// Config is the complete application configuration
type Config struct {
	NATS        NATSConfig    `yaml:"nats"`
	Timeouts    TimeoutConfig `yaml:"timeouts"`
	MetricsAddr string        `yaml:"metrics_addr,omitempty"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:  "nats://localhost:4222",
			Name: "nodewire",
		},
		Timeouts: TimeoutConfig{
			Request: 20 * time.Second,
			Connect: 5 * time.Second,
		},
	}
}

// Load reads configuration from path, falling back to defaults when
// path is empty or the file does not exist, then applies environment
// overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvNATSURL); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv(EnvAuthToken); v != "" {
		c.NATS.Token = v
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if c.NATS.URL == "" {
		return fmt.Errorf("config: nats.url is required")
	}
	if !strings.HasPrefix(c.NATS.URL, "nats://") &&
		!strings.HasPrefix(c.NATS.URL, "tls://") &&
		!strings.HasPrefix(c.NATS.URL, "ws://") &&
		!strings.HasPrefix(c.NATS.URL, "wss://") {
		return fmt.Errorf("config: nats.url %q must use a nats://, tls://, ws:// or wss:// scheme", c.NATS.URL)
	}

	if c.NATS.Token != "" && c.NATS.Username != "" {
		return fmt.Errorf("config: token and username/password auth are mutually exclusive")
	}
	if (c.NATS.Username == "") != (c.NATS.Password == "") {
		return fmt.Errorf("config: username and password must be set together")
	}

	if (c.NATS.TLSCert == "") != (c.NATS.TLSKey == "") {
		return fmt.Errorf("config: tls_cert and tls_key must be set together")
	}

	if c.Timeouts.Request < 0 || c.Timeouts.Connect < 0 {
		return fmt.Errorf("config: timeouts must not be negative")
	}

	return nil
}
