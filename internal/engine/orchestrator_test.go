package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/law-makers/newswatch/internal/engine"
	"github.com/law-makers/newswatch/internal/mock"
	"github.com/law-makers/newswatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pageA = `<article><h2>Product launch</h2><a href="/p/1">read</a></article>`
	pageB = `<div class="post"><h2>Second launch</h2><a href="/b">b</a></div><div class="entry"><h2>Other</h2><a href="/c">c</a></div>`
)

func TestOrchestrator_Run(t *testing.T) {
	t.Run("launch scenario", func(t *testing.T) {
		fetcher := &mock.Fetcher{FetchFn: mock.HTMLPages(map[string]string{"http://a.test": pageA}, nil)}
		sleeper := &mock.Sleeper{}
		o := engine.NewOrchestrator(newSiteScraper(fetcher), sleeper, time.Second)

		out, err := o.Run(context.Background(), models.ScrapeRequest{
			Sites:    []string{"http://a.test"},
			Keywords: []string{"launch"},
		})

		require.NoError(t, err)
		assert.Equal(t, []models.MatchResult{{
			URL:      "http://a.test/p/1",
			Title:    "Product launch",
			Keywords: []string{"launch"},
			Date:     "2026/10/18",
		}}, out.Results)
		assert.Empty(t, sleeper.Slept(), "no delay after the last site")
	})

	t.Run("one failing site does not abort the batch", func(t *testing.T) {
		fetcher := &mock.Fetcher{FetchFn: mock.HTMLPages(map[string]string{"http://b.test": pageB}, errors.New("network down"))}
		o := engine.NewOrchestrator(newSiteScraper(fetcher), &mock.Sleeper{}, time.Second)

		out, err := o.Run(context.Background(), models.ScrapeRequest{
			Sites:    []string{"http://a.test", "http://b.test"},
			Keywords: []string{"launch"},
		})

		require.NoError(t, err)
		require.Len(t, out.Results, 1)
		assert.Equal(t, "http://b.test/b", out.Results[0].URL)
		assert.Equal(t, 1, out.Failed())
		assert.Equal(t, []models.SiteReport{
			{Site: "http://a.test", Error: "network down"},
			{Site: "http://b.test", Matches: 1},
		}, out.Sites)
	})

	t.Run("sites are processed in order with a delay between them", func(t *testing.T) {
		fetcher := &mock.Fetcher{FetchFn: mock.HTMLPages(map[string]string{
			"http://a.test": pageA,
			"http://b.test": pageB,
			"http://c.test": pageA,
		}, nil)}
		sleeper := &mock.Sleeper{}
		o := engine.NewOrchestrator(newSiteScraper(fetcher), sleeper, time.Second)

		var seen []string
		o.OnSite = func(r engine.SiteResult) { seen = append(seen, r.Site) }

		out, err := o.Run(context.Background(), models.ScrapeRequest{
			Sites:    []string{"http://a.test", "http://b.test", "http://c.test"},
			Keywords: []string{"launch"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"http://a.test", "http://b.test", "http://c.test"}, fetcher.Calls())
		assert.Equal(t, fetcher.Calls(), seen)
		assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeper.Slept())

		var urls []string
		for _, r := range out.Results {
			urls = append(urls, r.URL)
		}
		assert.Equal(t, []string{"http://a.test/p/1", "http://b.test/b", "http://c.test/p/1"}, urls)
	})

	t.Run("same site twice is scraped twice", func(t *testing.T) {
		fetcher := &mock.Fetcher{FetchFn: mock.HTMLPages(map[string]string{"http://a.test": pageA}, nil)}
		o := engine.NewOrchestrator(newSiteScraper(fetcher), &mock.Sleeper{}, time.Second)

		out, err := o.Run(context.Background(), models.ScrapeRequest{
			Sites:    []string{"http://a.test", "http://a.test"},
			Keywords: []string{"launch"},
		})

		require.NoError(t, err)
		assert.Len(t, out.Results, 2)
	})

	t.Run("empty site list is a valid empty run", func(t *testing.T) {
		o := engine.NewOrchestrator(newSiteScraper(&mock.Fetcher{}), &mock.Sleeper{}, time.Second)

		out, err := o.Run(context.Background(), models.ScrapeRequest{Sites: []string{}, Keywords: []string{"x"}})

		require.NoError(t, err)
		assert.NotNil(t, out.Results)
		assert.Empty(t, out.Results)
	})

	t.Run("cancelled delay aborts the run", func(t *testing.T) {
		fetcher := &mock.Fetcher{FetchFn: mock.HTMLPages(map[string]string{"http://a.test": pageA, "http://b.test": pageB}, nil)}
		sleeper := &mock.Sleeper{SleepFn: func(context.Context, time.Duration) error { return context.Canceled }}
		o := engine.NewOrchestrator(newSiteScraper(fetcher), sleeper, time.Second)

		_, err := o.Run(context.Background(), models.ScrapeRequest{
			Sites:    []string{"http://a.test", "http://b.test"},
			Keywords: []string{"launch"},
		})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"http://a.test"}, fetcher.Calls())
	})

	t.Run("expired context is reported as timeout", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		o := engine.NewOrchestrator(newSiteScraper(&mock.Fetcher{}), &mock.Sleeper{}, time.Second)

		_, err := o.Run(ctx, models.ScrapeRequest{Sites: []string{"http://a.test"}, Keywords: []string{"x"}})

		require.Error(t, err)
		assert.True(t, errors.Is(err, &engine.ScrapeError{Code: engine.ErrCodeTimeout}))
	})

	t.Run("negative delay becomes zero", func(t *testing.T) {
		fetcher := &mock.Fetcher{FetchFn: mock.HTMLPages(map[string]string{"http://a.test": pageA}, nil)}
		sleeper := &mock.Sleeper{}
		o := engine.NewOrchestrator(newSiteScraper(fetcher), sleeper, -time.Second)

		_, err := o.Run(context.Background(), models.ScrapeRequest{
			Sites:    []string{"http://a.test", "http://a.test"},
			Keywords: []string{"launch"},
		})

		require.NoError(t, err)
		assert.Equal(t, []time.Duration{0}, sleeper.Slept())
	})
}

func TestOrchestrator_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.ScrapeRequest
		want error
	}{
		{"missing sites", models.ScrapeRequest{Keywords: []string{"a"}}, engine.ErrNoSites},
		{"missing keywords", models.ScrapeRequest{Sites: []string{"http://a.test"}}, engine.ErrNoKeywords},
		{"empty keywords", models.ScrapeRequest{Sites: []string{"http://a.test"}, Keywords: []string{}}, engine.ErrNoKeywords},
		{"blank keyword", models.ScrapeRequest{Sites: []string{"http://a.test"}, Keywords: []string{"a", ""}}, engine.ErrEmptyKeyword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mock.Fetcher{}
			o := engine.NewOrchestrator(newSiteScraper(fetcher), &mock.Sleeper{}, time.Second)

			out, err := o.Run(context.Background(), tt.req)

			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, engine.IsValidation(err))
			assert.Empty(t, fetcher.Calls(), "nothing is fetched for an invalid request")
		})
	}
}

func TestTimerSleeper(t *testing.T) {
	t.Run("returns after the delay", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, engine.TimerSleeper{}.Sleep(context.Background(), 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("returns early on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, engine.TimerSleeper{}.Sleep(ctx, time.Hour), context.Canceled)
	})
}

func TestOrchestrator_CancelledDuringLastSite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &mock.Fetcher{FetchFn: func(ctx context.Context, url string, _ map[string]string) (*engine.Page, error) {
		cancel()
		return nil, ctx.Err()
	}}
	o := engine.NewOrchestrator(newSiteScraper(fetcher), &mock.Sleeper{}, time.Second)

	out, err := o.Run(ctx, models.ScrapeRequest{Sites: []string{"http://a.test"}, Keywords: []string{"x"}})

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}
