// internal/cli/root.go
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/law-makers/newswatch/internal/app"
	"github.com/law-makers/newswatch/internal/config"
)

// Version is the release reported by --version
var Version = "0.1.0"

// NewRootCmd builds the command tree.
// The application is initialized lazily in PersistentPreRunE so -h/help stays cheap.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "newswatch",
		Short: "Watch news pages for keywords",
		Long: `Newswatch fetches a list of news pages, picks out article-like blocks and
reports every block whose title or text contains one of your keywords.

Sites are visited one at a time with a pause between them. Results can be printed,
exported to JSON, CSV, HTML or Markdown, or served over HTTP.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		appCtx, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		// Store app in the current command's context for commands to access
		SetApp(cmd, appCtx)
		return nil
	}

	// Ensure app is closed after command runs
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		appCtx := GetAppFromCmd(cmd)
		if appCtx == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), appCtx.Config.HTTPTimeout)
		defer cancel()
		_ = appCtx.Close(ctx)
		SetApp(cmd, nil)
	}

	// Register centralized flags
	config.RegisterFlags(rootCmd)

	// Customize help and version flag descriptions
	rootCmd.Flags().BoolP("help", "h", false, "Help for Newswatch")
	rootCmd.Flags().Bool("version", false, "Version for Newswatch")

	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Set custom help function
	rootCmd.SetHelpFunc(customHelpFunc)
	rootCmd.SetUsageFunc(customUsageFunc)

	rootCmd.AddCommand(newScrapeCmd(), newServeCmd())
	return rootCmd
}

// Execute runs the command tree with ctx; it is called by main.main().
// It returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
