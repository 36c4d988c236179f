package config

import "github.com/bobmcallan/square-mcp/internal/common"

// DefaultSquareVersion is sent as Square-Version unless overridden.
const DefaultSquareVersion = "2025-04-16"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "square-mcp",
			Host: "localhost",
			Port: 4250,
		},
		Square: SquareConfig{
			Environment: EnvironmentProduction,
			Version:     DefaultSquareVersion,
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console"},
		},
	}
}
