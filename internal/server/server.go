// Package server exposes scrape runs over HTTP.
//
// A POST carrying {"sites": [...], "keywords": [...]} runs one batch and answers
// {"success": true, "results": [...]}. Batches never overlap: a request waits for
// the running one to finish, or gives up when its own context ends.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/law-makers/newswatch/internal/engine"
	"github.com/law-makers/newswatch/internal/reqctx"
	"github.com/law-makers/newswatch/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// MaxRequestBytes caps the size of a scrape request body
const MaxRequestBytes = 1 << 20

// RequestIDHeader echoes the id tagging every log line of a request
const RequestIDHeader = "X-Request-ID"

// Runner executes one scrape batch.
type Runner interface {
	Run(ctx context.Context, req models.ScrapeRequest) (*models.ScrapeOutcome, error)
}

// Server routes HTTP requests to a Runner.
type Server struct {
	mux        *http.ServeMux
	runner     Runner
	gate       *semaphore.Weighted
	runTimeout time.Duration
	startTime  time.Time
}

// New creates a Server. runTimeout bounds a single batch; zero means no limit.
func New(runner Runner, runTimeout time.Duration) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		runner:     runner,
		gate:       semaphore.NewWeighted(1),
		runTimeout: runTimeout,
		startTime:  time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("/{$}", s.handleScrape)
	s.mux.HandleFunc("/api/scrape", s.handleScrape)
	s.mux.HandleFunc("/.netlify/functions/scrape", s.handleScrape)
}

// Handler returns the routed handler with per-request ids and CORS headers.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := reqctx.WithRequestID(r.Context(), r.Header.Get(RequestIDHeader))
		rc := reqctx.GetRequestContext(ctx)

		w.Header().Set(RequestIDHeader, rc.RequestID)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		s.mux.ServeHTTP(w, r.WithContext(ctx))

		reqctx.Logger(ctx).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(rc.StartTime)).
			Msg("Request served")
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("Server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := reqctx.Logger(ctx)

	var req models.ScrapeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Malformed scrape request")
		s.jsonResponse(w, http.StatusBadRequest, models.NewErrorResponse(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	if err := engine.Validate(req); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, models.NewErrorResponse(err))
		return
	}

	if err := s.gate.Acquire(ctx, 1); err != nil {
		logger.Warn().Err(err).Msg("Gave up waiting for the running batch")
		s.jsonResponse(w, http.StatusServiceUnavailable, models.NewErrorResponse(reqctx.NewRequestError(ctx, err)))
		return
	}
	defer s.gate.Release(1)

	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	outcome, err := s.runner.Run(ctx, req)
	if err != nil {
		status := http.StatusInternalServerError
		if engine.IsValidation(err) {
			status = http.StatusBadRequest
		}
		logger.Error().Err(err).Int("status", status).Msg("Scrape run failed")
		s.jsonResponse(w, status, models.NewErrorResponse(err))
		return
	}

	logger.Info().
		Int("sites", len(req.Sites)).
		Int("failed", outcome.Failed()).
		Int("matches", len(outcome.Results)).
		Msg("Scrape run complete")
	s.jsonResponse(w, http.StatusOK, models.NewResponse(outcome))
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}
