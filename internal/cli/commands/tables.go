package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/fleetgrid/internal/cli/output"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the fleet tables",
		Long: `List every fleet table with its columns, filters and the number of rows
matching the default filters.

Use --output to override: auto, text, markdown, json, csv, html`,
		Example: `  # List tables
  fleetgrid tables

  # As JSON for scripts
  fleetgrid tables -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTables(cmd)
		},
	}
}

// tableSummary describes one table of the catalog.
type tableSummary struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Rows    int         `json:"rows"`
	Columns []grid.Info `json:"columns"`
	Filters []string    `json:"filters"`
	OrderBy string      `json:"orderBy,omitempty"`
}

func runTables(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	tables := cmdCtx.Catalog.Tables()
	summaries := make([]tableSummary, 0, len(tables))
	for _, t := range tables {
		view, err := cmdCtx.OpenTable(cmd, t.ID())
		if err != nil {
			return err
		}
		view.SetRowsPerPage(1)
		page, err := view.Load(cmd.Context())
		if err != nil {
			return err
		}

		s := tableSummary{
			ID:      t.ID(),
			Title:   t.Title(),
			Rows:    page.Total,
			Columns: t.Columns(),
		}
		for _, f := range t.Filters() {
			s.Filters = append(s.Filters, f.Name)
		}
		s.OrderBy, _ = t.DefaultSort()
		summaries = append(summaries, s)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(summaries)
	}

	r.Header(fmt.Sprintf("Tables (%d total)", len(summaries)))
	headers := []grid.Header{
		{ID: "id", Label: "ID"},
		{ID: "title", Label: "Title"},
		{ID: "rows", Label: "Rows", Align: grid.AlignRight},
		{ID: "columns", Label: "Columns", Align: grid.AlignRight},
		{ID: "filters", Label: "Filters"},
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ID,
			s.Title,
			r.Number(s.Rows),
			strconv.Itoa(len(s.Columns)),
			strings.Join(s.Filters, ", "),
		})
	}
	return r.Table(headers, rows, nil)
}
