// internal/cli/serve.go
package cli

import (
	"fmt"

	"github.com/law-makers/newswatch/internal/config"
	"github.com/law-makers/newswatch/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scrape runs over HTTP",
		Long: `Starts an HTTP server accepting POST requests with {"sites": [...], "keywords": [...]}
on /, /api/scrape and /.netlify/functions/scrape. Runs are processed one at a time.`,
		Example: `  # Listen on the default address
  newswatch serve

  # Custom address and run timeout
  newswatch serve --listen 127.0.0.1:9000 --run-timeout 2m

  # Query it
  curl -X POST localhost:8080/api/scrape -d '{"sites":["https://example.com"],"keywords":["launch"]}'`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("listen", config.DefaultListenAddr, "Address to listen on")
	cmd.Flags().Duration("run-timeout", config.DefaultRunTimeout, "Upper bound for a single scrape run")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}

	srv := server.New(appCtx.Orchestrator, appCtx.Config.RunTimeout)
	return srv.ListenAndServe(cmd.Context(), appCtx.Config.ListenAddr)
}
