// Package config loads server settings from a YAML file with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	AppName = "mcp-testbed"

	DefaultServerName    = "mcp-testbed"
	DefaultServerVersion = "1.0.0"
	DefaultWSHost        = "localhost"
	DefaultWSPort        = 8765
)

// Config holds the application configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	WebSocket WebSocket `yaml:"websocket"`
	Trace     Trace     `yaml:"trace"`
	Debug     bool      `yaml:"debug"`
}

// Server holds the static negotiation payload values.
type Server struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	// ProtocolVersion overrides the per-transport default when set. The two
	// reference deployments advertise different versions, so this stays a
	// deployment choice rather than a single canonical value.
	ProtocolVersion string `yaml:"protocol_version"`
}

// WebSocket holds the socket binding endpoint.
type WebSocket struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Trace holds the exchange-trace store settings.
type Trace struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// GetConfig loads configuration from file and environment variables.
func GetConfig(customPath string) (*Config, error) {
	cfg := &Config{}

	// 1. Load from YAML file
	configPath, err := resolveConfigPath(customPath)
	if err != nil {
		return nil, err
	}

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err == nil {
			// Expand env vars before unmarshalling
			expanded := os.ExpandEnv(string(file))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	// 2. Override with environment variables
	if name := os.Getenv("MCP_TESTBED_SERVER_NAME"); name != "" {
		cfg.Server.Name = name
	}
	if version := os.Getenv("MCP_TESTBED_SERVER_VERSION"); version != "" {
		cfg.Server.Version = version
	}
	if pv := os.Getenv("MCP_TESTBED_PROTOCOL_VERSION"); pv != "" {
		cfg.Server.ProtocolVersion = pv
	}
	if host := os.Getenv("MCP_TESTBED_WS_HOST"); host != "" {
		cfg.WebSocket.Host = host
	}
	if port := os.Getenv("MCP_TESTBED_WS_PORT"); port != "" {
		if _, err := fmt.Sscanf(port, "%d", &cfg.WebSocket.Port); err != nil {
			return nil, fmt.Errorf("invalid MCP_TESTBED_WS_PORT: %w", err)
		}
	}
	if tracePath := os.Getenv("MCP_TESTBED_TRACE_DB"); tracePath != "" {
		cfg.Trace.Enabled = true
		cfg.Trace.DatabasePath = tracePath
	}
	if debug := os.Getenv("MCP_TESTBED_DEBUG"); debug == "1" || debug == "true" {
		cfg.Debug = true
	}

	// 3. Apply defaults and validate
	applyDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Name == "" {
		cfg.Server.Name = DefaultServerName
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = DefaultServerVersion
	}
	if cfg.WebSocket.Host == "" {
		cfg.WebSocket.Host = DefaultWSHost
	}
	if cfg.WebSocket.Port == 0 {
		cfg.WebSocket.Port = DefaultWSPort
	}
}

func validateConfig(cfg *Config) error {
	if cfg.WebSocket.Port < 1 || cfg.WebSocket.Port > 65535 {
		return fmt.Errorf("websocket port %d out of range", cfg.WebSocket.Port)
	}
	return nil
}

func resolveConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName, "config.yaml"), nil
}
