// Package server wires the vitals services together behind an HTTP API with
// graceful shutdown and an optional background sync schedule.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pmcorreia/vitals/internal/api"
	"github.com/pmcorreia/vitals/internal/config"
	"github.com/pmcorreia/vitals/internal/eve"
	"github.com/pmcorreia/vitals/internal/home"
	"github.com/pmcorreia/vitals/internal/jobs"
	"github.com/pmcorreia/vitals/internal/report"
	"github.com/pmcorreia/vitals/internal/server/endpoints"
	"github.com/pmcorreia/vitals/internal/svcctx"
	"github.com/pmcorreia/vitals/internal/whoop"
)

// Config holds server configuration.
type Config struct {
	// Home is the vitals home directory.
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support.
	ConfigManager *config.Manager
	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// Server is the main vitals HTTP server.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	jobManager *jobs.Manager
	fetcher    *whoop.Fetcher
	services   *svcctx.Services

	endpointRegistry *api.Registry

	syncInterval time.Duration

	mu      sync.RWMutex
	running bool
}

// New creates a Server, building every service from the configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Home == nil {
		return nil, errors.New("home directory is required")
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if err := cfg.Home.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to prepare home directory: %w", err)
	}

	c := cfg.ConfigManager.Get()

	vocabPath := c.Extraction.VocabularyFile
	if vocabPath == "" {
		vocabPath = cfg.Home.VocabularyPath()
	}
	vocab, err := report.LoadVocabulary(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy vocabulary: %w", err)
	}

	reports := report.NewStore(cfg.Home)
	pipeline := report.NewPipeline(vocab, cfg.Logger)
	whoopStore := whoop.NewFileStore(cfg.Home, cfg.Logger)

	whoopClient := whoop.NewClient(whoop.ClientConfig{
		AccessToken:       config.ResolveEnvVars(c.Whoop.AccessToken),
		BaseURL:           c.Whoop.BaseURL,
		MaxRetries:        c.Whoop.MaxRetries,
		RequestsPerMinute: c.Whoop.RequestsPerMinute,
		Logger:            cfg.Logger,
	})
	fetcher := whoop.NewFetcher(whoopClient, whoopStore, cfg.Logger)

	jobManager := jobs.NewManager(jobs.NewMemoryStore(), cfg.Logger)

	var assistant *eve.Assistant
	if key := config.ResolveEnvVars(c.Eve.APIKey); key != "" {
		assistant = eve.New(eve.Config{
			APIKey:  key,
			BaseURL: c.Eve.BaseURL,
			Model:   c.Eve.Model,
		}, reports, whoopStore, cfg.Logger)
	} else {
		cfg.Logger.Warn("eve assistant disabled, no API key configured")
	}

	s := &Server{
		configMgr:    cfg.ConfigManager,
		home:         cfg.Home,
		logger:       cfg.Logger,
		jobManager:   jobManager,
		fetcher:      fetcher,
		syncInterval: c.Whoop.SyncInterval,
		services: &svcctx.Services{
			Home:       cfg.Home,
			JobManager: jobManager,
			Reports:    reports,
			WhoopStore: whoopStore,
			Fetcher:    fetcher,
			Pipeline:   pipeline,
			Eve:        assistant,
			Logger:     cfg.Logger,
		},
	}

	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port)),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // uploads and sync can be slow
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start runs the server until the context is cancelled or the listener
// fails, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	if s.syncInterval > 0 {
		go s.runSyncSchedule(schedulerCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// runSyncSchedule triggers a background sync on the configured interval.
func (s *Server) runSyncSchedule(ctx context.Context) {
	s.logger.Info("scheduled sync enabled", "interval", s.syncInterval)
	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := s.jobManager.Submit("whoop_sync_scheduled", func(jobCtx context.Context) (map[string]any, error) {
				results, err := s.fetcher.SyncAll(jobCtx, false)
				if err != nil {
					return nil, err
				}
				return map[string]any{"results": results}, nil
			})
			if err != nil {
				s.logger.Error("failed to submit scheduled sync", "error", err)
			}
		}
	}
}

// shutdown drains the HTTP server and waits for running jobs.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := s.jobManager.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("job manager shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// JobManager returns the job manager.
func (s *Server) JobManager() *jobs.Manager {
	return s.jobManager
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wired HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the services are wired before a
// data endpoint runs.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil || s.services.JobManager == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
