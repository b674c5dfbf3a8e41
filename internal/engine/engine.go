package engine

import (
	"context"
	"time"
)

// Page is a fetched HTTP response body, already decoded to UTF-8
type Page struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher is the transport capability the site scraper consumes
type Fetcher interface {
	// Fetch issues a GET for url with the given extra headers.
	// Network failures and non-2xx responses are returned as errors.
	Fetch(ctx context.Context, url string, headers map[string]string) (*Page, error)

	// Name returns the name of the fetcher implementation
	Name() string
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// Sleeper pauses the calling flow between sites
type Sleeper interface {
	// Sleep blocks for d or until ctx is done
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

// TimerSleeper sleeps on a real timer
type TimerSleeper struct{}

// Sleep waits for d or ctx cancellation
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
