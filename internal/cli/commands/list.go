package commands

import (
	"fmt"

	"github.com/leapstack-labs/fleetgrid/internal/cli/output"
	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "list <table>",
		Short: "Show one page of a table",
		Long: `Show the rows of a table, filtered, sorted and paginated. Only visible
columns are printed, in the saved column order of the current profile
(see "fleetgrid columns").

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, csv, html`,
		Example: `  # First page of vehicles
  fleetgrid list vehicles

  # Diesel and toll expenses of March, highest first
  fleetgrid list expenses -f type=diesel,toll -f date=2024-03-01..2024-03-31 -s amount:desc

  # Every active tenant on a single page, as JSON
  fleetgrid list tenants --all -o json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTables,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], &flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func runList(cmd *cobra.Command, tableID string, flags *viewFlags) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	view, err := cmdCtx.OpenTable(cmd, tableID)
	if err != nil {
		return err
	}
	if err := flags.apply(view); err != nil {
		return err
	}

	page, err := view.Load(cmd.Context())
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("loaded page", "table", tableID, "page", page.Page, "total", page.Total)

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(page)
	}
	return renderPage(r, view, page)
}

func renderPage(r *output.Renderer, view fleet.TableView, page fleet.Page) error {
	r.Header(page.Title)

	rows := make([][]string, 0, len(page.Rows))
	for _, row := range page.Rows {
		rows = append(rows, row.Cells)
	}
	if err := r.Table(page.Headers, rows, nil); err != nil {
		return err
	}

	mode := r.EffectiveMode()
	if mode != output.ModeText && mode != output.ModeMarkdown {
		return nil
	}

	r.Println(r.Muted(pageSummary(r, page)))
	if active := view.Filters().Active(); len(active) > 0 {
		r.Println(r.Muted("Filters: " + describeFilters(page.Filters, active)))
	}
	if page.OrderBy != "" {
		r.Println(r.Muted(fmt.Sprintf("Sorted by %s %s", page.OrderBy, page.Order)))
	}
	return nil
}

// pageSummary renders "Page 2 of 3, rows 11-20 of 25".
func pageSummary(r *output.Renderer, page fleet.Page) string {
	if page.Total == 0 {
		return "No rows"
	}
	first := page.Page*page.RowsPerPage + 1
	if page.RowsPerPage <= 0 {
		first = 1
	}
	last := first + len(page.Rows) - 1
	return fmt.Sprintf("Page %d of %d, rows %s-%s of %s",
		page.Page+1, page.PageCount(), r.Number(first), r.Number(last), r.Number(page.Total))
}
