package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "fleetgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return dir, path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data", "", "dataset file")
	flags.String("state", "", "state database")
	flags.String("profile", "", "profile")
	flags.Int("rows-per-page", 0, "rows per page")
	flags.StringP("output", "o", "", "output format")
	flags.BoolP("verbose", "v", false, "verbose")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir, path := writeConfig(t, "")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, DefaultDataFile), cfg.DataPath)
	assert.Equal(t, filepath.Join(dir, DefaultStateFile), cfg.StatePath)
	assert.Equal(t, DefaultProfile, cfg.Profile)
	assert.Equal(t, DefaultRowsPerPage, cfg.RowsPerPage)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, SourceFile, cfg.SourceType())
	assert.Equal(t, DefaultTimeout, cfg.Source.Timeout)
	assert.Equal(t, DefaultPort, cfg.GetServerConfig().Port)
	assert.True(t, cfg.GetServerConfig().Watch)
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir, path := writeConfig(t, `data_path: data/fleet.yaml
state_path: /var/lib/fleetgrid/state.db
rows_per_page: 25
output: json
source:
  type: http
  base_url: https://fleet.example.com/api
  timeout: 5s
server:
  port: 9000
  watch: false
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "fleet.yaml"), cfg.DataPath)
	assert.Equal(t, "/var/lib/fleetgrid/state.db", cfg.StatePath, "absolute paths are kept")
	assert.Equal(t, 25, cfg.RowsPerPage)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, SourceHTTP, cfg.SourceType())
	assert.Equal(t, "https://fleet.example.com/api", cfg.Source.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 9000, cfg.GetServerConfig().Port)
	assert.False(t, cfg.GetServerConfig().Watch)
}

func TestLoadConfig_SessionSecretFromEnv(t *testing.T) {
	ResetConfig()
	t.Setenv("TEST_FLEETGRID_SECRET", "s3cret")
	_, path := writeConfig(t, "server:\n  session_secret: ${TEST_FLEETGRID_SECRET}\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.GetServerConfig().SessionSecret)
}

func TestLoadConfig_Profiles(t *testing.T) {
	content := `profile: ops
source:
  type: http
  base_url: https://base.example.com
  headers:
    Authorization: Bearer ${FLEETGRID_TEST_TOKEN}
profiles:
  ops:
    rows_per_page: 50
    source:
      base_url: https://ops.example.com
      headers:
        X-Tenant: north
  local:
    data_path: local.yaml
    source:
      type: file
`
	t.Setenv("FLEETGRID_TEST_TOKEN", "s3cret")

	t.Run("profile from file", func(t *testing.T) {
		ResetConfig()
		_, path := writeConfig(t, content)

		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)

		assert.Equal(t, "ops", cfg.Profile)
		assert.Equal(t, 50, cfg.RowsPerPage)
		assert.Equal(t, SourceHTTP, cfg.Source.Type, "type inherited from base")
		assert.Equal(t, "https://ops.example.com", cfg.Source.BaseURL)
		assert.Equal(t, "Bearer s3cret", cfg.Source.Headers["Authorization"])
		assert.Equal(t, "north", cfg.Source.Headers["X-Tenant"])
	})

	t.Run("profile flag", func(t *testing.T) {
		ResetConfig()
		dir, path := writeConfig(t, content)
		flags := testFlags()
		require.NoError(t, flags.Set("profile", "local"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)

		assert.Equal(t, "local", cfg.Profile)
		assert.Equal(t, SourceFile, cfg.SourceType())
		assert.Equal(t, filepath.Join(dir, "local.yaml"), cfg.DataPath)
		assert.Equal(t, DefaultRowsPerPage, cfg.RowsPerPage)
	})

	t.Run("unknown profile keeps base settings", func(t *testing.T) {
		ResetConfig()
		_, path := writeConfig(t, content)
		flags := testFlags()
		require.NoError(t, flags.Set("profile", "nonexistent"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)

		assert.Equal(t, "https://base.example.com", cfg.Source.BaseURL)
	})

	t.Run("rows-per-page flag beats profile", func(t *testing.T) {
		ResetConfig()
		_, path := writeConfig(t, content)
		flags := testFlags()
		require.NoError(t, flags.Set("rows-per-page", "7"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)

		assert.Equal(t, 7, cfg.RowsPerPage)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"zero rows per page", "rows_per_page: 0\n", "rows_per_page must be positive"},
		{"unknown source type", "source:\n  type: ftp\n", "unknown source type"},
		{"http without url", "source:\n  type: http\n", "source.base_url is required"},
		{"http with bad scheme", "source:\n  type: http\n  base_url: ftp://x\n", "must be an http(s) URL"},
		{"unknown output", "output: yaml\n", "unknown output"},
		{"port out of range", "server:\n  port: 70000\n", "out of range"},
		{"malformed yaml", "rows_per_page: [\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, path := writeConfig(t, tt.content)

			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	_, path := writeConfig(t, "rows_per_page: 11\noutput: text\n")

	t.Setenv("FLEETGRID_ROWS_PER_PAGE", "22")
	t.Setenv("FLEETGRID_OUTPUT", "markdown")

	flags := testFlags()
	require.NoError(t, flags.Set("rows-per-page", "33"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 33, cfg.RowsPerPage, "flag value should override config file and env var")
	assert.Equal(t, "markdown", cfg.Output, "env var should be used when flag is not set")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	_, path := writeConfig(t, "source:\n  type: http\n  base_url: https://file.example.com\n")

	t.Setenv("FLEETGRID_SOURCE__BASE_URL", "https://env.example.com")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Source.BaseURL)
}

func TestLoadConfig_FlagPathsRelativeToCWD(t *testing.T) {
	ResetConfig()
	_, path := writeConfig(t, "data_path: from_file.yaml\n")

	flags := testFlags()
	require.NoError(t, flags.Set("data", "from_flag.yaml"))
	require.NoError(t, flags.Set("state", "state.db"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "from_flag.yaml"), cfg.DataPath)
	assert.Equal(t, filepath.Join(cwd, "state.db"), cfg.StatePath)
}

func TestFindProjectRootUpward(t *testing.T) {
	root, _ := writeConfig(t, "")
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0750))

	assert.Equal(t, root, findProjectRootUpward(nested))
	assert.Empty(t, findProjectRootUpward(t.TempDir()))
}

func TestInferProjectRoot_FromDataFlag(t *testing.T) {
	root, _ := writeConfig(t, "")
	flags := testFlags()
	require.NoError(t, flags.Set("data", filepath.Join(root, "fleet.yaml")))

	assert.Equal(t, root, inferProjectRoot("", flags))
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FLEETGRID_DATA_PATH", "data_path"},
		{"FLEETGRID_SOURCE__BASE_URL", "source.base_url"},
		{"FLEETGRID_SERVER__SESSION_SECRET", "server.session_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

// TestExpandEnvVars tests the expandEnvVars function.
func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${TEST_VAR_ONE}", "value_one"},
		{"multiple variables", "${TEST_VAR_ONE}/${TEST_VAR_TWO}", "value_one/value_two"},
		{"unset variable stays as-is", "${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"no variables", "plain string", "plain string"},
		{"empty string", "", ""},
		{"mixed set and unset", "${TEST_VAR_ONE}:${UNSET_VAR}", "value_one:${UNSET_VAR}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestMergeSourceConfig(t *testing.T) {
	t.Run("nil base returns override", func(t *testing.T) {
		override := &SourceConfig{Type: SourceHTTP}
		assert.Equal(t, override, MergeSourceConfig(nil, override))
	})

	t.Run("nil override returns base", func(t *testing.T) {
		base := &SourceConfig{Type: SourceFile}
		assert.Equal(t, base, MergeSourceConfig(base, nil))
	})

	t.Run("override replaces base fields", func(t *testing.T) {
		base := &SourceConfig{
			Type:    SourceHTTP,
			BaseURL: "https://a",
			Timeout: time.Second,
			Headers: map[string]string{"A": "1", "B": "2"},
		}
		override := &SourceConfig{
			BaseURL: "https://b",
			Headers: map[string]string{"B": "3"},
		}

		got := MergeSourceConfig(base, override)

		assert.Equal(t, SourceHTTP, got.Type)
		assert.Equal(t, "https://b", got.BaseURL)
		assert.Equal(t, time.Second, got.Timeout)
		assert.Equal(t, map[string]string{"A": "1", "B": "3"}, got.Headers)
		assert.Equal(t, "2", base.Headers["B"], "base must not be mutated")
	})
}

func TestConfig_ValidateDataFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "fleet.yaml")
	require.NoError(t, os.WriteFile(existing, nil, 0600))

	assert.NoError(t, (&Config{DataPath: existing}).ValidateDataFile())
	assert.NoError(t, (&Config{DataPath: "missing", Source: &SourceConfig{Type: SourceHTTP}}).ValidateDataFile())

	err := (&Config{DataPath: filepath.Join(dir, "missing.yaml")}).ValidateDataFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset file does not exist")
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
