package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/law-makers/newswatch/pkg/models"
	"github.com/rs/zerolog/log"
)

// DefaultSiteDelay is the pause between two consecutive sites
const DefaultSiteDelay = 1 * time.Second

// Orchestrator scrapes the sites of a request strictly one after another,
// pausing between sites so target servers are not hammered.
type Orchestrator struct {
	scraper *SiteScraper
	sleeper Sleeper
	delay   time.Duration

	// OnSite, when set, is called after every site with its result
	OnSite func(SiteResult)
}

// NewOrchestrator creates an Orchestrator. A negative delay is treated as zero.
func NewOrchestrator(scraper *SiteScraper, sleeper Sleeper, delay time.Duration) *Orchestrator {
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	if delay < 0 {
		delay = 0
	}
	return &Orchestrator{
		scraper: scraper,
		sleeper: sleeper,
		delay:   delay,
	}
}

// Validate checks that a request can be processed at all.
// Site URLs are not checked here: a bad site fails on its own during the run.
func Validate(req models.ScrapeRequest) error {
	if req.Sites == nil {
		return NewScrapeError(ErrCodeValidation, "invalid request", ErrNoSites)
	}
	if len(req.Keywords) == 0 {
		return NewScrapeError(ErrCodeValidation, "invalid request", ErrNoKeywords)
	}
	for _, kw := range req.Keywords {
		if kw == "" {
			return NewScrapeError(ErrCodeValidation, "invalid request", ErrEmptyKeyword)
		}
	}
	return nil
}

// Run processes every site of req in order and returns all matches.
// A failing site contributes no results and does not stop the run; only an
// invalid request or a done context fails the whole batch.
func (o *Orchestrator) Run(ctx context.Context, req models.ScrapeRequest) (*models.ScrapeOutcome, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	outcome := &models.ScrapeOutcome{
		Results: []models.MatchResult{},
		Sites:   make([]models.SiteReport, 0, len(req.Sites)),
	}

	log.Info().
		Int("sites", len(req.Sites)).
		Int("keywords", len(req.Keywords)).
		Msg("Starting scrape run")

	for i, site := range req.Sites {
		if err := ctx.Err(); err != nil {
			return nil, wrapContextErr(err)
		}

		res := o.scraper.Scrape(ctx, site, req.Keywords)
		outcome.Results = append(outcome.Results, res.Matches...)
		outcome.Sites = append(outcome.Sites, res.Report())

		if o.OnSite != nil {
			o.OnSite(res)
		}

		if i < len(req.Sites)-1 {
			if err := o.sleeper.Sleep(ctx, o.delay); err != nil {
				return nil, wrapContextErr(err)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapContextErr(err)
	}

	log.Info().
		Int("results", len(outcome.Results)).
		Int("failed_sites", outcome.Failed()).
		Msg("Scrape run finished")

	return outcome, nil
}

func wrapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewScrapeError(ErrCodeTimeout, "scrape run timed out", err)
	}
	return fmt.Errorf("scrape run aborted: %w", err)
}
