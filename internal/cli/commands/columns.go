package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/fleetgrid/internal/cli/output"
	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"github.com/spf13/cobra"
)

// NewColumnsCommand creates the columns command and its subcommands.
func NewColumnsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns <table>",
		Short: "Show and change the visible columns of a table",
		Long: `Show the columns of a table in display order with their visibility.

Changes are saved in the state database under the current profile and apply
to "list" and "export". Locked columns are always shown.`,
		Example: `  # Show the columns of trips
  fleetgrid columns trips

  # Hide the driver column, then move the vehicle column first
  fleetgrid columns toggle trips driver
  fleetgrid columns move trips vehicle 1

  # Back to the default layout
  fleetgrid columns reset trips`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTables,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withColumns(cmd, args[0], nil)
		},
	}

	cmd.AddCommand(
		newColumnsSubcommand("toggle <table> <column>", "Show a hidden column or hide a visible one", 2,
			func(ctx context.Context, v *grid.Visibility, args []string) error {
				if !v.Has(args[1]) {
					return fmt.Errorf("%w %q", grid.ErrUnknownColumn, args[1])
				}
				return v.Toggle(ctx, args[1])
			}),
		newColumnsSubcommand("show-all <table>", "Show every column", 1,
			func(ctx context.Context, v *grid.Visibility, _ []string) error {
				return v.ToggleAll(ctx, true)
			}),
		newColumnsSubcommand("hide-all <table>", "Hide every column that is not locked", 1,
			func(ctx context.Context, v *grid.Visibility, _ []string) error {
				return v.ToggleAll(ctx, false)
			}),
		newColumnsSubcommand("move <table> <column> <position>", "Move a column to a position, starting at 1", 3,
			func(ctx context.Context, v *grid.Visibility, args []string) error {
				pos, err := strconv.Atoi(args[2])
				if err != nil || pos < 1 {
					return fmt.Errorf("invalid position %q (want a number from 1)", args[2])
				}
				if !v.Has(args[1]) {
					return fmt.Errorf("%w %q", grid.ErrUnknownColumn, args[1])
				}
				return v.Move(ctx, args[1], pos-1)
			}),
		newColumnsSubcommand("reset <table>", "Restore the default columns and order", 1,
			func(ctx context.Context, v *grid.Visibility, _ []string) error {
				return v.Reset(ctx)
			}),
	)

	return cmd
}

type columnsChange func(ctx context.Context, v *grid.Visibility, args []string) error

func newColumnsSubcommand(use, short string, nargs int, change columnsChange) *cobra.Command {
	return &cobra.Command{
		Use:               use,
		Short:             short,
		Args:              cobra.ExactArgs(nargs),
		ValidArgsFunction: completeTables,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withColumns(cmd, args[0], func(ctx context.Context, v *grid.Visibility) error {
				return change(ctx, v, args)
			})
		},
	}
}

// withColumns opens the table, applies change when given, and prints the
// resulting column state.
func withColumns(cmd *cobra.Command, tableID string, change func(context.Context, *grid.Visibility) error) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	view, err := cmdCtx.OpenTable(cmd, tableID)
	if err != nil {
		return err
	}
	cols := view.Columns()

	if change != nil {
		if err := change(cmd.Context(), cols); err != nil {
			return err
		}
		cmdCtx.Logger.Debug("saved column state", "key", cols.Key().String())
	}

	return renderColumns(cmdCtx.Renderer, view.Table(), cols)
}

// columnsReport is the JSON form of a table's column state.
type columnsReport struct {
	Table    string             `json:"table"`
	Columns  []grid.ColumnState `json:"columns"`
	CanReset bool               `json:"canReset"`
}

func renderColumns(r *output.Renderer, t fleet.Table, cols *grid.Visibility) error {
	states := cols.Columns()
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(columnsReport{Table: t.ID(), Columns: states, CanReset: cols.CanReset()})
	}

	r.Header(fmt.Sprintf("%s columns (%d of %d visible)", t.Title(), len(cols.VisibleIDs()), len(states)))
	headers := []grid.Header{
		{ID: "position", Label: "#", Align: grid.AlignRight},
		{ID: "id", Label: "ID"},
		{ID: "label", Label: "Label"},
		{ID: "visible", Label: "Visible", Align: grid.AlignCenter},
		{ID: "locked", Label: "Locked", Align: grid.AlignCenter},
	}
	rows := make([][]string, 0, len(states))
	for i, c := range states {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.ID,
			c.Label,
			yesNo(c.Visible),
			yesNo(c.Disabled),
		})
	}
	if err := r.Table(headers, rows, nil); err != nil {
		return err
	}
	if cols.CanReset() && r.EffectiveMode() != output.ModeCSV && r.EffectiveMode() != output.ModeHTML {
		r.Println(r.Muted("Customized. Run \"fleetgrid columns reset " + t.ID() + "\" to restore the defaults."))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
