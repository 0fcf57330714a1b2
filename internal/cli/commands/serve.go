package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/fleetgrid/internal/server"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Open  bool
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tables in the browser and as a JSON API",
		Long: `Start a local web server with a page per table and a JSON API.

Every browser session gets its own filters, sort, page and selection. Column
layouts are saved in the state database per session. When rows come from a
dataset file, edits to the file are picked up while the server runs.`,
		Example: `  # Serve on the default port
  fleetgrid serve

  # Serve on port 3000 and open the browser
  fleetgrid serve --port 3000 --open

  # Serve without reloading the dataset on change
  fleetgrid serve --watch=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload the dataset file when it changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// CLI flags override config file
	srvCfg := cmdCtx.Cfg.GetServerConfig()
	port := srvCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := srvCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	srv := server.NewServer(server.Config{
		Catalog:       cmdCtx.Catalog,
		Store:         cmdCtx.Store,
		Memory:        cmdCtx.Memory,
		DataPath:      cmdCtx.Cfg.DataPath,
		Port:          port,
		Watch:         watch,
		SessionSecret: srvCfg.SessionSecret,
		RowsPerPage:   cmdCtx.Cfg.RowsPerPage,
		Logger:        cmdCtx.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if opts.Open {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Println(fmt.Sprintf("Serving %d tables on %s", len(cmdCtx.Catalog.Tables()), url))
	r.Println(r.Muted("Press Ctrl+C to stop"))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return srv.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
