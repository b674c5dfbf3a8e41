// internal/engine/static/fetcher.go
package static

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/law-makers/newswatch/internal/engine"
	"github.com/law-makers/newswatch/internal/proxy"
	"github.com/law-makers/newswatch/internal/ratelimit"
	urlutil "github.com/law-makers/newswatch/internal/utils/url"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// DefaultMaxBodyBytes caps how much of a response is read
const DefaultMaxBodyBytes = 10 * 1024 * 1024

var _ engine.Fetcher = (*Fetcher)(nil)

type proxyKey struct{}

// Fetcher implements engine.Fetcher over plain HTTP.
// Bodies are decompressed (gzip, deflate, br) and converted to UTF-8.
type Fetcher struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	proxies   *proxy.ProxyPool
	userAgent string
	maxBody   int64
}

// New creates a new Fetcher with dependency injection.
// limiter and proxies may be nil.
func New(client *http.Client, lim ratelimit.RateLimiter, proxies *proxy.ProxyPool, ua string, maxBody int64) *Fetcher {
	if client == nil {
		client = &http.Client{Transport: NewTransport(proxies), Timeout: 30 * time.Second}
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Fetcher{
		client:    client,
		limiter:   lim,
		proxies:   proxies,
		userAgent: ua,
		maxBody:   maxBody,
	}
}

// NewTransport builds a keep-alive transport that routes through the proxy chosen for each request.
// Compression is negotiated by the fetcher itself so brotli can be accepted.
func NewTransport(proxies *proxy.ProxyPool) *http.Transport {
	return &http.Transport{
		Proxy:               proxyFunc(proxies),
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  true,
	}
}

func proxyFunc(proxies *proxy.ProxyPool) func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		if p, ok := req.Context().Value(proxyKey{}).(string); ok && p != "" {
			return url.Parse(p)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "StaticFetcher"
}

// Fetch retrieves a page and returns its body decoded to UTF-8
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, headers map[string]string) (*engine.Page, error) {
	start := time.Now()

	if err := urlutil.ValidateURL(rawURL); err != nil {
		return nil, engine.NewScrapeError(engine.ErrCodeValidation, engine.ErrInvalidSite.Error(), err).
			WithDetail("url", rawURL)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, engine.NewScrapeError(engine.ErrCodeTimeout, "rate limiter wait aborted", err)
		}
	}

	chosen := ""
	if f.proxies != nil {
		chosen = f.proxies.GetNext()
		if chosen != "" {
			ctx = context.WithValue(ctx, proxyKey{}, chosen)
		}
	}

	log.Debug().
		Str("url", rawURL).
		Str("fetcher", f.Name()).
		Str("proxy", chosen).
		Msg("Starting fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, engine.NewScrapeError(engine.ErrCodeNetworkError, "failed to create request", err)
	}

	// Set default headers
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	// Add custom headers
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// a cancelled or expired caller says nothing about the proxy
		if chosen != "" && ctx.Err() == nil {
			f.proxies.MarkFailed(chosen)
		}
		return nil, engine.NewScrapeError(engine.ErrCodeNetworkError, "failed to fetch URL", err).
			WithDetail("url", rawURL)
	}
	defer resp.Body.Close()

	if chosen != "" {
		f.proxies.MarkHealthy(chosen)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, engine.NewScrapeError(engine.ErrCodeHTTPStatus, fmt.Sprintf("HTTP %d", resp.StatusCode), nil).
			WithDetail("status", resp.StatusCode).
			WithDetail("url", rawURL)
	}

	body, err := readBody(resp, f.maxBody)
	if err != nil {
		return nil, engine.NewScrapeError(engine.ErrCodeParseError, "failed to read body", err).
			WithDetail("url", rawURL)
	}

	log.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Msg("Fetch completed")

	return &engine.Page{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// readBody decompresses and transcodes the response body to UTF-8
func readBody(resp *http.Response, limit int64) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(reader)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(reader)
	}

	reader = io.LimitReader(reader, limit)

	// Falls back to sniffing <meta charset> when Content-Type has no charset
	decoded, err := charset.NewReader(reader, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("charset: %w", err)
	}

	return io.ReadAll(decoded)
}
