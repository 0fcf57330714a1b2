package commands

import (
	"testing"

	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListCommand(t *testing.T) {
	cmd := NewListCommand()

	assert.Equal(t, "list <table>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Note: --output flag is a global persistent flag on root command, not local to list
	for _, flag := range []string{"filter", "sort", "page", "rows-per-page", "all"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewExportCommand(t *testing.T) {
	cmd := NewExportCommand()

	assert.Equal(t, "export <table>", cmd.Use)
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"filter", "sort", "format", "scope", "out"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "csv", cmd.Flags().Lookup("format").DefValue)
	assert.Equal(t, "all", cmd.Flags().Lookup("scope").DefValue)
}

func TestNewColumnsCommand(t *testing.T) {
	cmd := NewColumnsCommand()

	assert.Equal(t, "columns <table>", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"toggle", "show-all", "hide-all", "move", "reset"}, names)
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	for _, flag := range []string{"port", "open", "watch"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "true", cmd.Flags().Lookup("watch").DefValue)
}

func TestNewTablesAndViewsCommands(t *testing.T) {
	assert.Equal(t, "tables", NewTablesCommand().Use)
	assert.Equal(t, "views", NewViewsCommand().Use)
}

func TestCompleteTables(t *testing.T) {
	got, directive := completeTables(&cobra.Command{}, nil, "")
	assert.Equal(t, fleet.TableIDs, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	// The catalog order is not shared with callers.
	got[0] = "changed"
	assert.Equal(t, "customers", fleet.TableIDs[0])
}

func TestDescribeFilters(t *testing.T) {
	values := grid.Values{"status": []string{"active", "trial"}, "q": "acme"}
	got := describeFilters(values, []string{"q", "status"})
	require.NotEmpty(t, got)
	assert.Contains(t, got, "q=acme")
	assert.Contains(t, got, "status=active,trial")
}
