package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"maso-hq/masolint/pkg/cli"
	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/workspace"
)

var watchFlags struct {
	repo     string
	branch   string
	interval string
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Revalidate documents as they change",
	Long: `Validate every document under a file or directory, then revalidate each
document whenever it is written. With --repo the repository is polled
instead and changed documents are revalidated after every pull.

Examples:
  # Watch the current directory
  masolint watch

  # Watch a directory
  masolint watch workloads

  # Poll a Git repository every minute
  masolint watch --repo https://github.com/company/workloads.git --interval 1m`,
	Args: cobra.MaximumNArgs(1),
	RunE: watchDocuments,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.repo, "repo", "", "poll a Git repository instead of the file system")
	watchCmd.Flags().StringVar(&watchFlags.branch, "branch", "", "branch to track with --repo")
	watchCmd.Flags().StringVar(&watchFlags.interval, "interval", "", "poll interval with --repo (e.g. 30s)")
}

func watchDocuments(cmd *cobra.Command, args []string) error {
	interval, err := optionalDuration(watchFlags.interval)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	a, err := newApp(ctx, func(cfg *config.Config) {
		if len(args) == 1 {
			cfg.Watch.Path = args[0]
		}
		applySourceFlags(cfg, watchFlags.repo, watchFlags.branch, interval)
	})
	if err != nil {
		return err
	}
	defer a.close()

	store, err := a.openHistory()
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	opts := []workspace.Option{workspace.WithCommitHook(printEntry(cmd.OutOrStdout()))}
	if store != nil {
		defer store.Close()
		opts = append(opts, workspace.WithRecorder(store))
	}
	ws := a.newWorkspace(opts...)

	if watchFlags.repo != "" {
		return watchRepository(ctx, a, ws)
	}

	watcher, err := workspace.NewFileWatcher(ws, a.cfg.Watch, a.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	if _, err := watcher.Scan(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

func watchRepository(ctx context.Context, a *app, ws *workspace.Workspace) error {
	_, cleanup, err := startPoller(ctx, a, ws)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer cleanup()

	<-ctx.Done()
	return nil
}

// applySourceFlags copies the repository flags into the source section.
func applySourceFlags(cfg *config.Config, repo, branch string, interval time.Duration) {
	if repo != "" {
		cfg.Source.Repository = repo
	}
	if branch != "" {
		cfg.Source.Branch = branch
	}
	if interval > 0 {
		cfg.Source.PollInterval = interval
	}
}

// printEntry returns a commit hook that prints each run's diagnostics.
func printEntry(w io.Writer) func(workspace.Entry) {
	var mu sync.Mutex
	return func(entry workspace.Entry) {
		mu.Lock()
		defer mu.Unlock()

		summary := entry.Summary()
		if len(entry.Diagnostics) == 0 {
			fmt.Fprintf(w, "%s: valid\n", entry.URI)
			return
		}
		fmt.Fprintf(w, "%s: %d error(s), %d warning(s)\n", entry.URI, summary.Errors, summary.Warnings)
		for _, d := range entry.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}
