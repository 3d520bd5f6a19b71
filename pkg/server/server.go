package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/history"
	"maso-hq/masolint/pkg/maso/validator"
	"maso-hq/masolint/pkg/telemetry/health"
	"maso-hq/masolint/pkg/telemetry/metrics"
	"maso-hq/masolint/pkg/telemetry/tracing"
	"maso-hq/masolint/pkg/workspace"
)

// HistoryStore is the subset of the history store the API serves.
type HistoryStore interface {
	history.Recorder
	Get(ctx context.Context, id string) (*history.Run, error)
	List(ctx context.Context, q history.Query) ([]*history.Run, error)
}

// BuildInfo is reported by the version endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Options configures a Server. Workspace is required.
type Options struct {
	Config      config.ServerConfig
	Workspace   *workspace.Workspace
	Validator   *validator.Validator
	History     HistoryStore
	Health      *health.Checker
	Metrics     *metrics.Collector
	MetricsPath string
	Tracer      *tracing.Tracer
	Build       BuildInfo
	Logger      *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	config      config.ServerConfig
	workspace   *workspace.Workspace
	validator   *validator.Validator
	history     HistoryStore
	health      *health.Checker
	metrics     *metrics.Collector
	metricsPath string
	tracer      *tracing.Tracer
	build       BuildInfo
	logger      *slog.Logger

	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server. Unset optional collaborators are replaced by
// disabled implementations.
func New(opts Options) (*Server, error) {
	if opts.Workspace == nil {
		return nil, errors.New("server: workspace is required")
	}

	cfg := opts.Config
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = config.DefaultListenAddress
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = config.DefaultShutdownTimeout
	}

	s := &Server{
		config:      cfg,
		workspace:   opts.Workspace,
		validator:   opts.Validator,
		history:     opts.History,
		health:      opts.Health,
		metrics:     opts.Metrics,
		metricsPath: opts.MetricsPath,
		tracer:      opts.Tracer,
		build:       opts.Build,
		logger:      opts.Logger,
	}
	if s.validator == nil {
		s.validator = validator.NewValidator()
	}
	if s.health == nil {
		s.health = health.New(0)
	}
	if s.metrics == nil {
		s.metrics = metrics.Disabled()
	}
	if s.tracer == nil {
		s.tracer = tracing.Disabled()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "server")
	if s.build.Version == "" {
		s.build.Version = "dev"
	}

	return s, nil
}

// Handler returns the HTTP handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)
	v1.HandleFunc("/documents", s.handleListDocuments).Methods(http.MethodGet)
	v1.HandleFunc("/documents", s.handlePutDocument).Methods(http.MethodPut)
	v1.HandleFunc("/documents", s.handleDeleteDocument).Methods(http.MethodDelete)
	v1.HandleFunc("/documents/diagnostics", s.handleGetDiagnostics).Methods(http.MethodGet)
	v1.HandleFunc("/commands/validate", s.handleValidateCommand).Methods(http.MethodPost)
	if s.history != nil {
		v1.HandleFunc("/history", s.handleListHistory).Methods(http.MethodGet)
		v1.HandleFunc("/history/{id}", s.handleGetRun).Methods(http.MethodGet)
	}

	r.Handle("/healthz", s.health.LivenessHandler()).Methods(http.MethodGet)
	r.Handle("/readyz", s.health.ReadinessHandler()).Methods(http.MethodGet)
	r.Handle("/version", health.VersionHandler(s.build.Version, s.build.Commit, s.build.BuildTime)).Methods(http.MethodGet)
	if s.metrics.Enabled() && s.metricsPath != "" {
		r.Handle(s.metricsPath, s.metrics.Handler()).Methods(http.MethodGet)
	}

	// Outermost first: recovery, tracing, request ID, logging.
	var handler http.Handler = r
	handler = loggingMiddleware(s.logger)(handler)
	handler = requestIDMiddleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = recoveryMiddleware(s.logger)(handler)
	return handler
}

// Start listens on the configured address and serves until ctx is
// cancelled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.isRunning = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", "address", listener.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down server")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.setRunning(false)
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// Shutdown gracefully stops the server, waiting at most the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		httpServer := s.httpServer
		s.mu.RUnlock()
		if httpServer == nil {
			return
		}

		s.logger.Info("shutting down HTTP server", "timeout", s.config.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			err = fmt.Errorf("failed to shutdown server: %w", shutdownErr)
		}
		s.setRunning(false)
		s.logger.Info("HTTP server stopped")
	})
	return err
}

// Addr returns the bound address once the server is listening.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning reports whether the server is serving requests.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Server) setRunning(running bool) {
	s.mu.Lock()
	s.isRunning = running
	s.mu.Unlock()
}
