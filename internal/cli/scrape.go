// internal/cli/scrape.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/law-makers/newswatch/internal/engine"
	"github.com/law-makers/newswatch/internal/ui"
	"github.com/law-makers/newswatch/internal/utils/headers"
	"github.com/law-makers/newswatch/internal/utils/output"
	"github.com/law-makers/newswatch/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type scrapeOptions struct {
	sites      []string
	keywords   []string
	request    string
	output     string
	headers    []string
	noProgress bool
}

func newScrapeCmd() *cobra.Command {
	opts := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape sites once and report keyword matches",
		Long: `Fetches every site in order, waits between sites, and prints the matches as
{"success": true, "results": [...]}. A site that cannot be fetched or parsed is
reported in the summary and skipped.

Sites and keywords come from flags, from a JSON request file shaped like
{"sites": [...], "keywords": [...]}, or both.`,
		Example: `  # One site, one keyword
  newswatch scrape --site https://example.com/news --keyword launch

  # Several keywords, results exported to CSV
  newswatch scrape -s https://a.example/news -s https://b.example/press -k 新製品 -k launch -o matches.csv

  # Read the request from a file (use - for stdin)
  newswatch scrape --request request.json --output report.md

  # Add custom headers
  newswatch scrape -s https://example.com -k launch -H "Cookie: consent=1"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.sites, "site", "s", nil, "Site URL to scrape (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.keywords, "keyword", "k", nil, "Keyword to match, case-sensitive (repeatable)")
	cmd.Flags().StringVarP(&opts.request, "request", "r", "", "JSON request file with sites and keywords (- for stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "File path to save results (supports .json, .csv, .html, .md)")
	cmd.Flags().StringArrayVarP(&opts.headers, "header", "H", []string{}, "Custom headers (e.g., -H \"Cookie: a=b\")")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Hide the progress bar")

	return cmd
}

func runScrape(cmd *cobra.Command, opts *scrapeOptions) error {
	appCtx := GetAppFromCmd(cmd)
	if appCtx == nil {
		return fmt.Errorf("application not initialized")
	}

	req, err := buildRequest(cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}

	extra, err := headers.Parse(opts.headers)
	if err != nil {
		return err
	}

	quiet := strings.EqualFold(appCtx.Config.LogLevel, "error")
	orch := appCtx.NewOrchestrator(extra)

	bar := progressbar.NewOptions(len(req.Sites),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Scraping"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(!quiet && !opts.noProgress && !appCtx.Config.JSONLog && len(req.Sites) > 0),
	)
	orch.OnSite = func(r engine.SiteResult) {
		log.Debug().Str("site", r.Site).Int("matches", len(r.Matches)).Dur("duration", r.Duration).Msg("Site done")
		_ = bar.Add(1)
	}

	start := time.Now()
	outcome, err := orch.Run(cmd.Context(), req)
	_ = bar.Finish()
	if err != nil {
		if opts.output == "" {
			_ = output.WriteJSON(cmd.OutOrStdout(), models.NewErrorResponse(err))
		}
		return fmt.Errorf("scrape failed: %w", err)
	}

	resp := models.NewResponse(outcome)
	if opts.output != "" {
		if err := output.Save(resp, opts.output); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.output, err)
		}
		log.Info().Str("file", opts.output).Int("matches", len(resp.Results)).Msg("Output saved")
		if !quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Success(fmt.Sprintf("✓ Saved %d result(s) to %s", len(resp.Results), opts.output)))
		}
	} else if err := output.WriteJSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}

	if !quiet {
		printSummary(cmd.ErrOrStderr(), outcome, time.Since(start))
	}
	return nil
}

// buildRequest merges the request file with the --site and --keyword flags.
// A field stays nil when no source provides it so validation can tell missing from empty.
func buildRequest(stdin io.Reader, opts *scrapeOptions) (models.ScrapeRequest, error) {
	var req models.ScrapeRequest

	if opts.request != "" {
		var r io.Reader = stdin
		if opts.request != "-" {
			f, err := os.Open(opts.request)
			if err != nil {
				return req, fmt.Errorf("failed to open request file: %w", err)
			}
			defer f.Close()
			r = f
		}
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return req, fmt.Errorf("invalid request file: %w", err)
		}
	}

	req.Sites = append(req.Sites, opts.sites...)
	req.Keywords = append(req.Keywords, opts.keywords...)
	return req, nil
}

func printSummary(w io.Writer, outcome *models.ScrapeOutcome, elapsed time.Duration) {
	fmt.Fprintf(w, "\n%s\n", ui.Bold("Scrape Results:"))
	for i, s := range outcome.Sites {
		if s.Error != "" {
			fmt.Fprintf(w, "%s [%d/%d] %s\n", ui.Error("✗"), i+1, len(outcome.Sites), ui.Value(s.Site))
			fmt.Fprintf(w, "  %s %s\n", ui.Dim("Error:"), ui.Error(s.Error))
			continue
		}
		fmt.Fprintf(w, "%s [%d/%d] %s\n", ui.Success("✓"), i+1, len(outcome.Sites), ui.Value(s.Site))
		fmt.Fprintf(w, "  %s %s\n", ui.Dim("Matches:"), ui.Value(fmt.Sprint(s.Matches)))
	}
	fmt.Fprintf(w, "\n%s %s\n", ui.Info("Total:"),
		ui.Value(fmt.Sprintf("%d match(es) from %d site(s), %d failed, %v", len(outcome.Results), len(outcome.Sites), outcome.Failed(), elapsed.Round(time.Millisecond))))
}
