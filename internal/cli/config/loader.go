package config

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// envPrefix prefixes every environment variable read by the loader.
const envPrefix = "FLEETGRID_"

var configNames = []string{"fleetgrid.yaml", "fleetgrid.yml"}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// configExistsIn checks if a fleetgrid config file exists in the directory.
func configExistsIn(dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a fleetgrid config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		if configExistsIn(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Directory of --data when it holds a config file
//  3. Search upward from CWD for fleetgrid.yaml
//  4. Current working directory
func inferProjectRoot(cfgFile string, flags *pflag.FlagSet) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	if flags != nil && flags.Changed("data") {
		if dataPath, _ := flags.GetString("data"); dataPath != "" {
			if abs, err := filepath.Abs(dataPath); err == nil && configExistsIn(filepath.Dir(abs)) != "" {
				return filepath.Dir(abs)
			}
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := findProjectRootUpward(cwd); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// flagPath returns the absolute value of a path flag set on the command line.
func flagPath(flags *pflag.FlagSet, name string) string {
	if flags == nil || !flags.Changed(name) {
		return ""
	}
	v, _ := flags.GetString(name)
	if v == "" {
		return ""
	}
	abs, err := filepath.Abs(v)
	if err != nil {
		return v
	}
	return abs
}

// envKey maps FLEETGRID_SOURCE__BASE_URL to source.base_url.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// flagKeys bridges flag names that differ from their config keys.
var flagKeys = map[string]string{
	"data":  "data_path",
	"state": "state_path",
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile, flags)

	// Flag paths are relative to CWD, not to the project root.
	flagData := flagPath(flags, "data")
	flagState := flagPath(flags, "state")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"data_path":      DefaultDataFile,
		"state_path":     DefaultStateFile,
		"profile":        DefaultProfile,
		"rows_per_page":  DefaultRowsPerPage,
		"verbose":        false,
		"output":         DefaultOutput,
		"source.type":    SourceFile,
		"source.timeout": DefaultTimeout.String(),
		"server.port":    DefaultPort,
		"server.watch":   true,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = cfgFile
	if configFileUsed == "" {
		configFileUsed = configExistsIn(projectRoot)
	}
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (FLEETGRID_ prefix)
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot

	// 6. Apply the selected profile
	if p, ok := cfg.Profiles[cfg.Profile]; ok {
		if p.DataPath != "" && flagData == "" {
			cfg.DataPath = p.DataPath
		}
		if p.RowsPerPage > 0 && !changed(flags, "rows-per-page") {
			cfg.RowsPerPage = p.RowsPerPage
		}
		if p.Source != nil {
			cfg.Source = MergeSourceConfig(cfg.Source, p.Source)
		}
	}

	// 7. Resolve relative paths against the project root
	if flagData != "" {
		cfg.DataPath = flagData
	} else {
		cfg.DataPath = resolvePathRelativeTo(cfg.DataPath, projectRoot)
	}
	if flagState != "" {
		cfg.StatePath = flagState
	} else {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}

	expandSourceEnvVars(cfg.Source)
	if cfg.Server != nil {
		cfg.Server.SessionSecret = expandEnvVars(cfg.Server.SessionSecret)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

func changed(flags *pflag.FlagSet, name string) bool {
	return flags != nil && flags.Changed(name)
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

// expandSourceEnvVars expands environment variables in the source URL and
// headers, which typically carry tokens.
func expandSourceEnvVars(s *SourceConfig) {
	if s == nil {
		return
	}
	s.BaseURL = expandEnvVars(s.BaseURL)
	for name, v := range s.Headers {
		s.Headers[name] = expandEnvVars(v)
	}
}

// MergeSourceConfig merges two source configs, with override taking precedence.
func MergeSourceConfig(base, override *SourceConfig) *SourceConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := &SourceConfig{
		Type:    base.Type,
		BaseURL: base.BaseURL,
		Timeout: base.Timeout,
		Headers: make(map[string]string, len(base.Headers)+len(override.Headers)),
	}
	maps.Copy(merged.Headers, base.Headers)

	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.BaseURL != "" {
		merged.BaseURL = override.BaseURL
	}
	if override.Timeout != 0 {
		merged.Timeout = override.Timeout
	}
	maps.Copy(merged.Headers, override.Headers)

	return merged
}
