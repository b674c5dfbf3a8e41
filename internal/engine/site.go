package engine

import (
	"bytes"
	"context"
	"time"

	"github.com/law-makers/newswatch/internal/dom"
	"github.com/law-makers/newswatch/internal/extract"
	"github.com/law-makers/newswatch/internal/match"
	urlutil "github.com/law-makers/newswatch/internal/utils/url"
	"github.com/law-makers/newswatch/pkg/models"
	"github.com/rs/zerolog/log"
)

// DateLayout renders a date the way the ja-JP locale prints a short date (2026/1/5)
const DateLayout = "2006/1/2"

// SiteResult is the isolated outcome of scraping one site.
// Err is set when the site could not be fetched or parsed; Matches is then empty.
type SiteResult struct {
	Site     string
	Matches  []models.MatchResult
	Err      error
	Duration time.Duration
}

// Report converts the result into its diagnostic summary
func (r SiteResult) Report() models.SiteReport {
	rep := models.SiteReport{Site: r.Site, Matches: len(r.Matches)}
	if r.Err != nil {
		rep.Error = r.Err.Error()
	}
	return rep
}

// SiteScraper runs fetch, parse, extract, match and normalize for one site at a time
type SiteScraper struct {
	fetcher  Fetcher
	parser   dom.Parser
	clock    Clock
	location *time.Location
	headers  map[string]string
}

// SiteOption configures a SiteScraper
type SiteOption func(*SiteScraper)

// WithClock sets the clock used for the result date
func WithClock(c Clock) SiteOption {
	return func(s *SiteScraper) {
		s.clock = c
	}
}

// WithLocation sets the time zone the result date is rendered in
func WithLocation(loc *time.Location) SiteOption {
	return func(s *SiteScraper) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithHeaders adds headers to every fetch
func WithHeaders(h map[string]string) SiteOption {
	return func(s *SiteScraper) {
		s.headers = h
	}
}

// NewSiteScraper creates a SiteScraper with dependency injection
func NewSiteScraper(f Fetcher, p dom.Parser, opts ...SiteOption) *SiteScraper {
	s := &SiteScraper{
		fetcher:  f,
		parser:   p,
		clock:    SystemClock{},
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape never returns an error to its caller: failures are logged and carried in SiteResult.Err
func (s *SiteScraper) Scrape(ctx context.Context, site string, keywords []string) SiteResult {
	start := time.Now()
	res := SiteResult{Site: site}

	matches, err := s.scrape(ctx, site, keywords)
	res.Duration = time.Since(start)
	if err != nil {
		log.Warn().
			Str("site", site).
			Err(err).
			Msg("Error scraping site")
		res.Err = err
		return res
	}

	res.Matches = matches
	log.Debug().
		Str("site", site).
		Int("matches", len(matches)).
		Dur("duration", res.Duration).
		Msg("Site scraped")
	return res
}

func (s *SiteScraper) scrape(ctx context.Context, site string, keywords []string) (results []models.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = NewScrapeError(ErrCodeParseError, "extraction panicked", nil).WithDetail("panic", r)
		}
	}()

	page, err := s.fetcher.Fetch(ctx, site, s.headers)
	if err != nil {
		return nil, err
	}

	doc, err := s.parser.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return nil, NewScrapeError(ErrCodeParseError, "failed to parse page", err).WithDetail("site", site)
	}

	date := s.clock.Now().In(s.location).Format(DateLayout)

	for block := range extract.Blocks(doc) {
		fields := extract.Fields(block)
		if !fields.Valid() {
			continue
		}

		matched := match.Keywords(fields, keywords)
		if len(matched) == 0 {
			continue
		}

		results = append(results, models.MatchResult{
			URL:      urlutil.Normalize(fields.Link, site),
			Title:    fields.Title,
			Keywords: matched,
			Date:     date,
		})
	}

	return results, nil
}
