// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/law-makers/newswatch/internal/config"
	"github.com/law-makers/newswatch/internal/dom"
	"github.com/law-makers/newswatch/internal/engine"
	"github.com/law-makers/newswatch/internal/engine/static"
	"github.com/law-makers/newswatch/internal/proxy"
	"github.com/law-makers/newswatch/internal/ratelimit"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared by the CLI commands and the HTTP host.
// Use Close() to release pooled connections on shutdown.
type Application struct {
	Config       *config.Config
	Logger       *zerolog.Logger
	RateLimiter  ratelimit.RateLimiter
	Proxies      *proxy.ProxyPool
	HTTPClient   *http.Client
	Fetcher      *static.Fetcher
	Parser       dom.Parser
	Location     *time.Location
	Orchestrator *engine.Orchestrator
	startTime    time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures the global logger based on the provided config
//   - Creates the per-host rate limiter and the proxy pool
//   - Initializes the HTTP client with proper timeouts
//   - Creates the fetcher, the site scraper and the orchestrator
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := NewLogger(cfg, os.Stderr)
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	rateLimiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	proxies := proxy.ParseList(cfg.Proxy)
	if proxies != nil {
		logger.Debug().Int("proxies", proxies.Len()).Msg("Proxy pool initialized")
	}

	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: static.NewTransport(proxies),
	}
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Msg("HTTP client initialized")

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &Application{
		Config:      cfg,
		Logger:      &logger,
		RateLimiter: rateLimiter,
		Proxies:     proxies,
		HTTPClient:  httpClient,
		Fetcher:     static.New(httpClient, rateLimiter, proxies, cfg.UserAgent, cfg.MaxBodyBytes),
		Parser:      dom.NewGoqueryParser(),
		Location:    loc,
		startTime:   time.Now(),
	}
	a.Orchestrator = a.NewOrchestrator(nil)

	logger.Debug().Str("timezone", loc.String()).Msg("Application initialized successfully")
	return a, nil
}

// NewOrchestrator builds an orchestrator sharing the application's fetcher.
// headers are sent with every page request of its runs.
func (a *Application) NewOrchestrator(headers map[string]string) *engine.Orchestrator {
	scraper := engine.NewSiteScraper(a.Fetcher, a.Parser,
		engine.WithLocation(a.Location),
		engine.WithHeaders(headers),
	)
	return engine.NewOrchestrator(scraper, engine.TimerSleeper{}, a.Config.SiteDelay)
}

// NewLogger builds a zerolog logger honoring the configured level and format.
func NewLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var logWriter io.Writer
	if cfg.JSONLog {
		// JSON logs as-is
		logWriter = out
	} else {
		// Human-friendly console output otherwise
		logWriter = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	return zerolog.New(logWriter).Level(level).With().Timestamp().Logger()
}

// Close gracefully shuts down the application and all its resources.
// A context with a timeout should be provided to prevent indefinite blocking.
func (a *Application) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
