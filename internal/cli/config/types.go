// Package config provides configuration management for the fleetgrid CLI.
//
// Configuration is layered: built-in defaults, then fleetgrid.yaml, then
// FLEETGRID_* environment variables, then flags set on the command line.
// A named profile may override the data and source settings and scopes
// the persisted column state.
package config

import "time"

// Source types.
const (
	SourceFile = "file"
	SourceHTTP = "http"
)

// SourceConfig selects where table rows come from.
type SourceConfig struct {
	// Type is "file" (the dataset at data_path) or "http" (a REST collaborator).
	Type    string            `koanf:"type"`
	BaseURL string            `koanf:"base_url"`
	Timeout time.Duration     `koanf:"timeout"`
	Headers map[string]string `koanf:"headers"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Port          int    `koanf:"port"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:  DefaultPort,
		Watch: true,
	}
}

// GetServerConfig returns the server config with defaults applied for any unset values.
func (c *Config) GetServerConfig() *ServerConfig {
	if c.Server == nil {
		return DefaultServerConfig()
	}
	s := c.Server
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	return s
}

// Config holds all CLI configuration options.
type Config struct {
	DataPath    string                   `koanf:"data_path"`
	StatePath   string                   `koanf:"state_path"`
	Profile     string                   `koanf:"profile"`
	RowsPerPage int                      `koanf:"rows_per_page"`
	Verbose     bool                     `koanf:"verbose"`
	Output      string                   `koanf:"output"`
	Source      *SourceConfig            `koanf:"source"`
	Server      *ServerConfig            `koanf:"server"`
	Profiles    map[string]ProfileConfig `koanf:"profiles"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// ProfileConfig holds profile-specific configuration overrides.
type ProfileConfig struct {
	DataPath    string        `koanf:"data_path"`
	RowsPerPage int           `koanf:"rows_per_page"`
	Source      *SourceConfig `koanf:"source"`
}

// Default configuration values.
const (
	DefaultDataFile    = "fleet.yaml"
	DefaultStateFile   = ".fleetgrid/state.db"
	DefaultProfile     = "default"
	DefaultRowsPerPage = 10
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPort        = 8765
	DefaultTimeout     = 30 * time.Second
)
