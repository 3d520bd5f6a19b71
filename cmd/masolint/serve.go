package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"maso-hq/masolint/pkg/cli"
	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/gitsource"
	"maso-hq/masolint/pkg/history"
	"maso-hq/masolint/pkg/server"
	"maso-hq/masolint/pkg/telemetry/health"
	"maso-hq/masolint/pkg/workspace"
)

var serveFlags struct {
	listenAddress string
	watchPath     string
	repo          string
	branch        string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API holding the diagnostics of open documents.

Editors and tools push document text with PUT /v1/documents and read the
diagnostics back. The server can also watch a directory (--watch) or poll
a Git repository (--repo, or source.repository in the config) so that the
documents on disk or in the repository are always validated.

Examples:
  # Start with the default configuration
  masolint serve

  # Listen on all interfaces and watch a directory
  masolint serve --listen 0.0.0.0:7878 --watch workloads

  # Validate the configuration without starting
  masolint serve --config /etc/masolint/masolint.yaml --dry-run`,
	RunE: serveAPI,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.watchPath, "watch", "", "also watch a file or directory")
	serveCmd.Flags().StringVar(&serveFlags.repo, "repo", "", "also poll a Git repository")
	serveCmd.Flags().StringVar(&serveFlags.branch, "branch", "", "branch to track with --repo")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func serveAPI(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	a, err := newApp(ctx, func(cfg *config.Config) {
		if serveFlags.listenAddress != "" {
			cfg.Server.ListenAddress = serveFlags.listenAddress
		}
		if serveFlags.watchPath != "" {
			cfg.Watch.Path = serveFlags.watchPath
		}
		applySourceFlags(cfg, serveFlags.repo, serveFlags.branch, 0)
	})
	if err != nil {
		return err
	}
	defer a.close()

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	checker := health.New(5 * time.Second)
	opts := server.Options{
		Config:      a.cfg.Server,
		Validator:   a.validator,
		Health:      checker,
		Metrics:     a.metrics,
		MetricsPath: a.cfg.Telemetry.Metrics.Path,
		Tracer:      a.tracer,
		Build:       server.BuildInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate},
		Logger:      a.logger,
	}

	var wsOpts []workspace.Option
	store, err := a.openHistory()
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	if store != nil {
		defer store.Close()
		wsOpts = append(wsOpts, workspace.WithRecorder(store))
		opts.History = store
		checker.RegisterCheck("history", store.Ping)

		scheduler := history.NewScheduler(history.NewPruner(store, a.cfg.History, a.metrics, a.logger))
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer scheduler.Stop()
	}

	ws := a.newWorkspace(wsOpts...)
	opts.Workspace = ws

	if serveFlags.watchPath != "" {
		watcher, err := startWatcher(ctx, a, ws)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer watcher.Stop()
		checker.RegisterCheck("watcher", func(context.Context) error {
			if !watcher.Running() {
				return errors.New("file watcher is not running")
			}
			return nil
		})
	}

	if a.cfg.Source.Repository != "" {
		poller, cleanup, err := startPoller(ctx, a, ws)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer cleanup()
		checker.RegisterCheck("source", func(context.Context) error {
			if !poller.Running() {
				return errors.New("repository poller is not running")
			}
			return nil
		})
	}

	srv, err := server.New(opts)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// startWatcher validates every document under the watch path and watches
// it in the background.
func startWatcher(ctx context.Context, a *app, ws *workspace.Workspace) (*workspace.FileWatcher, error) {
	watcher, err := workspace.NewFileWatcher(ws, a.cfg.Watch, a.logger)
	if err != nil {
		return nil, err
	}
	if _, err := watcher.Scan(ctx); err != nil {
		_ = watcher.Stop()
		return nil, err
	}
	go func() {
		if err := watcher.Watch(ctx); err != nil {
			a.logger.Error("file watcher failed", "error", err)
		}
	}()
	return watcher, nil
}

// startPoller clones the configured repository and polls it in the
// background. cleanup stops polling and removes a temporary clone.
func startPoller(ctx context.Context, a *app, ws *workspace.Workspace) (*gitsource.Poller, func(), error) {
	repo, err := gitsource.NewRepository(a.cfg.Source, a.cfg.Files, a.logger)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.Clone(ctx); err != nil {
		_ = repo.Close()
		return nil, nil, err
	}

	poller := gitsource.NewPoller(repo, ws, a.cfg.Source.PollInterval, a.logger)
	if err := poller.Start(ctx); err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	return poller, func() {
		poller.Stop()
		_ = repo.Close()
	}, nil
}
