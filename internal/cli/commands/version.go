package commands

import (
	"fmt"
	"runtime"

	"github.com/leapstack-labs/fleetgrid/internal/cli/output"
	"github.com/spf13/cobra"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, buildDate string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the fleetgrid version with the commit and date it was built
from. With -o json the same fields are printed as an object.`,
		Example: `  fleetgrid version
  fleetgrid version --short
  fleetgrid version -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := BuildInfo{
				Version:   version,
				Commit:    commit,
				BuildDate: buildDate,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return err
			}

			r := NewCommandContextWithoutData(cmd).Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(info)
			}
			r.Printf("fleetgrid v%s\n", info.Version)
			r.Println(r.Muted(fmt.Sprintf("commit %s, built %s, %s %s", info.Commit, info.BuildDate, info.GoVersion, info.Platform)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")

	return cmd
}
