// Package mock provides hand-written fakes of the engine capabilities.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/law-makers/newswatch/internal/engine"
)

var (
	_ engine.Fetcher = (*Fetcher)(nil)
	_ engine.Clock   = (*Clock)(nil)
	_ engine.Sleeper = (*Sleeper)(nil)
)

// Fetcher is a mock implementation of engine.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, headers map[string]string) (*engine.Page, error)

	mu    sync.Mutex
	calls []string
}

func (f *Fetcher) Fetch(ctx context.Context, url string, headers map[string]string) (*engine.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	return f.FetchFn(ctx, url, headers)
}

func (f *Fetcher) Name() string { return "mock" }

// Calls returns the URLs fetched so far, in order.
func (f *Fetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// HTMLPages returns a FetchFn serving fixed bodies per URL; unknown URLs return err.
func HTMLPages(pages map[string]string, err error) func(context.Context, string, map[string]string) (*engine.Page, error) {
	return func(_ context.Context, url string, _ map[string]string) (*engine.Page, error) {
		body, ok := pages[url]
		if !ok {
			return nil, err
		}
		return &engine.Page{URL: url, StatusCode: 200, ContentType: "text/html; charset=utf-8", Body: []byte(body)}, nil
	}
}

// Clock always returns T.
type Clock struct {
	T time.Time
}

func (c Clock) Now() time.Time { return c.T }

// Sleeper records requested sleeps without waiting.
type Sleeper struct {
	SleepFn func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	slept []time.Duration
}

func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.slept = append(s.slept, d)
	s.mu.Unlock()
	if s.SleepFn != nil {
		return s.SleepFn(ctx, d)
	}
	return nil
}

// Slept returns every duration passed to Sleep.
func (s *Sleeper) Slept() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.slept...)
}
