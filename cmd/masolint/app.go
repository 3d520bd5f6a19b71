package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"maso-hq/masolint/pkg/cli"
	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/history"
	"maso-hq/masolint/pkg/maso/validator"
	"maso-hq/masolint/pkg/telemetry/logging"
	"maso-hq/masolint/pkg/telemetry/metrics"
	"maso-hq/masolint/pkg/telemetry/tracing"
	"maso-hq/masolint/pkg/workspace"
)

// app holds the components shared by every command.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *metrics.Collector
	tracer    *tracing.Tracer
	validator *validator.Validator
}

// newApp loads the configuration, lets the command override it, and builds
// the logger, telemetry and validator.
func newApp(ctx context.Context, override func(*config.Config)) (*app, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if override != nil {
		override(cfg)
		if err := config.Validate(cfg); err != nil {
			return nil, cli.NewConfigError("flags", err.Error())
		}
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	opts, err := cfg.Validation.ValidatorOptions()
	if err != nil {
		return nil, cli.NewConfigError("validation.severity", err.Error())
	}

	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	collector := metrics.Disabled()
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Telemetry.Metrics, nil)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   collector,
		tracer:    tracer,
		validator: validator.New(opts),
	}, nil
}

// close flushes pending spans.
func (a *app) close() {
	if err := a.tracer.Shutdown(context.Background()); err != nil {
		a.logger.Warn("failed to shut down tracer", "error", err)
	}
}

// newWorkspace builds a workspace from the configuration.
func (a *app) newWorkspace(opts ...workspace.Option) *workspace.Workspace {
	base := []workspace.Option{
		workspace.WithValidator(a.validator),
		workspace.WithExtensions(a.cfg.Files.Extensions),
		workspace.WithCache(workspace.NewResultCache(a.cfg.Cache, a.metrics)),
		workspace.WithMetrics(a.metrics),
		workspace.WithTracer(a.tracer),
		workspace.WithLogger(a.logger),
	}
	return workspace.New(append(base, opts...)...)
}

// openHistory opens the history store, or returns nil when history is
// disabled.
func (a *app) openHistory() (*history.Store, error) {
	if !a.cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(a.cfg.History, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// requireHistory opens the history store and fails when it is disabled.
func (a *app) requireHistory() (*history.Store, error) {
	if !a.cfg.History.Enabled {
		return nil, cli.NewConfigError("history.enabled", "history is disabled")
	}
	return a.openHistory()
}
