package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/leapstack-labs/fleetgrid/internal/cli/config"
	"github.com/leapstack-labs/fleetgrid/internal/cli/output"
	"github.com/leapstack-labs/fleetgrid/internal/dataset"
	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/internal/source"
	"github.com/leapstack-labs/fleetgrid/internal/state"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Catalog  *fleet.Catalog
	Store    *state.SQLiteStore
	Renderer *output.Renderer

	// Memory is set when rows come from the dataset file.
	Memory *dataset.Memory
}

// NewCommandContext creates a CommandContext with the table catalog, the
// state store and a renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutData(cmd)

	sources, mem, err := createSources(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := fleet.NewFleetCatalog(sources)
	if err != nil {
		return nil, nil, err
	}

	store, err := state.OpenSQLiteStore(cmd.Context(), cmdCtx.Cfg.StatePath)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Logger.Debug("opened state store", "path", store.Path())

	cmdCtx.Catalog = catalog
	cmdCtx.Memory = mem
	cmdCtx.Store = store

	cleanup := func() {
		_ = store.Close()
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutData creates a CommandContext without catalog or
// store. Useful for commands that only read configuration.
func NewCommandContextWithoutData(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenTable opens a table view in the profile namespace with persisted
// column state.
func (c *CommandContext) OpenTable(cmd *cobra.Command, id string) (fleet.TableView, error) {
	t, err := c.Catalog.Table(id)
	if err != nil {
		return nil, err
	}
	view, err := t.Open(cmd.Context(), fleet.OpenOptions{
		Store:       c.Store,
		Namespace:   c.Cfg.Profile,
		RowsPerPage: c.Cfg.RowsPerPage,
	})
	if errors.Is(err, grid.ErrStateLoad) {
		c.Logger.Warn("saved columns unavailable, using defaults", "table", id, "error", err)
		return view, nil
	}
	return view, err
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	rowsPerPage := config.DefaultRowsPerPage
	if v, err := strconv.Atoi(os.Getenv("FLEETGRID_ROWS_PER_PAGE")); err == nil && v > 0 {
		rowsPerPage = v
	}

	return &config.Config{
		DataPath:    getEnvOrDefault("FLEETGRID_DATA_PATH", config.DefaultDataFile),
		StatePath:   getEnvOrDefault("FLEETGRID_STATE_PATH", config.DefaultStateFile),
		Profile:     getEnvOrDefault("FLEETGRID_PROFILE", config.DefaultProfile),
		RowsPerPage: rowsPerPage,
		Verbose:     os.Getenv("FLEETGRID_VERBOSE") == "true",
		Output:      os.Getenv("FLEETGRID_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// createSources builds the row sources selected by the configuration.
func createSources(cfg *config.Config, logger *slog.Logger) (fleet.Sources, *dataset.Memory, error) {
	if cfg.SourceType() == config.SourceHTTP {
		opts := []source.HTTPOption{
			source.WithClient(&http.Client{Timeout: sourceTimeout(cfg)}),
		}
		for name, v := range cfg.Source.Headers {
			opts = append(opts, source.WithHeader(name, v))
		}
		logger.Debug("using http row sources", "base_url", cfg.Source.BaseURL)
		src, err := fleet.HTTPSources(cfg.Source.BaseURL, opts...)
		return src, nil, err
	}

	if err := cfg.ValidateDataFile(); err != nil {
		return fleet.Sources{}, nil, err
	}
	ds, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return fleet.Sources{}, nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Debug("loaded dataset", "path", cfg.DataPath, "counts", ds.Counts())

	mem := dataset.NewMemory(ds)
	return mem.Sources(), mem, nil
}

func sourceTimeout(cfg *config.Config) time.Duration {
	if cfg.Source != nil && cfg.Source.Timeout > 0 {
		return cfg.Source.Timeout
	}
	return config.DefaultTimeout
}
