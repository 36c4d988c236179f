package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/square-mcp/internal/common"
)

// Square API hosts.
const (
	ProductionBaseURL = "https://connect.squareup.com"
	SandboxBaseURL    = "https://connect.squareupsandbox.com"

	EnvironmentProduction = "production"
	EnvironmentSandbox    = "sandbox"
)

var validate = validator.New()

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig         `toml:"server"`
	Square   SquareConfig         `toml:"square"`
	Services ServicesConfig       `toml:"services"`
	Logging  common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name string `toml:"name" validate:"required"`
	Host string `toml:"host"`
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
}

// SquareConfig contains settings for the outbound Square API.
type SquareConfig struct {
	Environment string `toml:"environment" validate:"required,oneof=production sandbox"`
	BaseURL     string `toml:"base_url" validate:"omitempty,url"`
	AccessToken string `toml:"access_token"`
	Version     string `toml:"version" validate:"required"`
	Timeout     string `toml:"timeout"`
}

// ServicesConfig restricts which Square services are exposed as tools.
// An empty list exposes all of them.
type ServicesConfig struct {
	Enabled []string `toml:"enabled"`
}

// ResolveBaseURL returns the explicit base URL if one is configured, otherwise
// the host for the configured environment.
func (c SquareConfig) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Environment == EnvironmentSandbox {
		return SandboxBaseURL
	}
	return ProductionBaseURL
}

// GetTimeout parses the configured timeout. Zero means no client timeout.
func (c SquareConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Validate checks field constraints after all overrides have been applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Square.Timeout != "" {
		if _, err := time.ParseDuration(c.Square.Timeout); err != nil {
			return fmt.Errorf("invalid config: square.timeout %q: %w", c.Square.Timeout, err)
		}
	}
	return nil
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// A missing file is not an error; the defaults are used.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// envOverrides mirrors the environment variables that override file settings.
type envOverrides struct {
	AccessToken string   `env:"SQUARE_ACCESS_TOKEN"`
	Environment string   `env:"SQUARE_ENVIRONMENT"`
	Sandbox     *bool    `env:"SANDBOX"`
	Version     string   `env:"SQUARE_VERSION"`
	BaseURL     string   `env:"SQUARE_BASE_URL"`
	Host        string   `env:"SQUARE_MCP_HOST"`
	Port        int      `env:"SQUARE_MCP_PORT"`
	LogLevel    string   `env:"SQUARE_LOG_LEVEL"`
	Services    []string `env:"SQUARE_SERVICES" envSeparator:","`
}

// applyEnvOverrides applies SQUARE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.AccessToken != "" {
		config.Square.AccessToken = o.AccessToken
	}
	if o.Environment != "" {
		config.Square.Environment = strings.ToLower(o.Environment)
	}
	if o.Sandbox != nil && *o.Sandbox {
		config.Square.Environment = EnvironmentSandbox
	}
	if o.Version != "" {
		config.Square.Version = o.Version
	}
	if o.BaseURL != "" {
		config.Square.BaseURL = o.BaseURL
	}
	if o.Host != "" {
		config.Server.Host = o.Host
	}
	if o.Port > 0 {
		config.Server.Port = o.Port
	}
	if o.LogLevel != "" {
		config.Logging.Level = o.LogLevel
	}
	if len(o.Services) > 0 {
		enabled := make([]string, 0, len(o.Services))
		for _, s := range o.Services {
			if s = strings.TrimSpace(s); s != "" {
				enabled = append(enabled, s)
			}
		}
		config.Services.Enabled = enabled
	}
	return nil
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
