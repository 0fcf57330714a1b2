package commands

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/fleetgrid/internal/cli/output"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"github.com/spf13/cobra"
)

// NewViewsCommand creates the views command.
func NewViewsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List saved column layouts of the current profile",
		Long: `List the tables whose column layout was customized under the current
profile, with the time of the last change.`,
		Example: `  fleetgrid views
  fleetgrid views --profile ops -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runViews(cmd)
		},
	}
}

// savedView is the JSON form of a persisted layout.
type savedView struct {
	Table     string    `json:"table"`
	Key       string    `json:"key"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func runViews(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := cmdCtx.Store.List(cmd.Context(), cmdCtx.Cfg.Profile)
	if err != nil {
		return err
	}
	views := make([]savedView, 0, len(entries))
	for _, e := range entries {
		views = append(views, savedView{Table: e.Key.Table(), Key: e.Key.String(), UpdatedAt: e.UpdatedAt})
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(views)
	}

	r.Header(fmt.Sprintf("Saved views of profile %s (%d)", cmdCtx.Cfg.Profile, len(views)))
	if len(views) == 0 {
		r.Println(r.Muted("No customized tables."))
		return nil
	}
	headers := []grid.Header{
		{ID: "table", Label: "Table"},
		{ID: "key", Label: "Key"},
		{ID: "updated", Label: "Updated"},
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{v.Table, v.Key, v.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}
	return r.Table(headers, rows, nil)
}
