package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/history"
	"maso-hq/masolint/pkg/workspace"
)

// Poller keeps a Workspace in sync with the tracked branch. Every poll
// interval it pulls; changed documents are revalidated with the git
// trigger and deleted documents are closed.
type Poller struct {
	repo      *Repository
	workspace *workspace.Workspace
	interval  time.Duration
	logger    *slog.Logger

	mu        sync.RWMutex
	running   bool
	lastSHA   string
	pollCount int64
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewPoller creates a poller. A non-positive interval uses the default
// poll interval.
func NewPoller(repo *Repository, ws *workspace.Workspace, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = config.DefaultSourcePollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		repo:      repo,
		workspace: ws,
		interval:  interval,
		logger:    logger.With("component", "gitsource.poller"),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// SyncAll validates every document at HEAD with the git trigger and
// returns their paths.
func (p *Poller) SyncAll(ctx context.Context) ([]string, error) {
	head, err := p.repo.Head()
	if err != nil {
		return nil, err
	}
	files, err := p.repo.Files()
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.sync(ctx, path)
	}

	p.mu.Lock()
	p.lastSHA = head.SHA
	p.mu.Unlock()

	p.logger.Info("synced documents", "commit", head.ShortSHA(), "documents", len(files))
	return files, nil
}

// Start syncs every document, then polls in the background until ctx is
// cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return errors.New("poller already running")
	}
	p.running = true
	p.mu.Unlock()

	if _, err := p.SyncAll(ctx); err != nil {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		return fmt.Errorf("initial sync failed: %w", err)
	}

	p.logger.Info("poller started", "poll_interval", p.interval)
	go p.loop(ctx)
	return nil
}

func (p *Poller) loop(ctx context.Context) {
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		close(p.doneCh)
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped (context cancelled)")
			return
		case <-p.stopCh:
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
			if _, err := p.Poll(ctx); err != nil {
				p.logger.Error("error checking for changes", "error", err)
			}
		}
	}
}

// Poll pulls once and applies the changed documents to the workspace. It
// returns the number of documents revalidated or closed.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	p.mu.Lock()
	p.pollCount++
	p.mu.Unlock()

	result, err := p.repo.Pull(ctx)
	if err != nil {
		return 0, err
	}
	if !result.HadChanges {
		return 0, nil
	}

	applied := 0
	for _, rel := range result.ChangedFiles {
		path, ok := p.repo.Resolve(rel)
		if !ok {
			continue
		}
		p.sync(ctx, path)
		applied++
	}

	p.mu.Lock()
	p.lastSHA = result.ToSHA
	p.mu.Unlock()

	p.logger.Info("applied changes",
		"from_sha", shortSHA(result.FromSHA),
		"to_sha", shortSHA(result.ToSHA),
		"changed_files", len(result.ChangedFiles),
		"documents", applied,
	)
	return applied, nil
}

// sync revalidates path, or closes it if the pull deleted it.
func (p *Poller) sync(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		p.workspace.Close(path)
		return
	}
	if err != nil {
		p.logger.Warn("failed to read document", "path", path, "error", err)
		return
	}
	if err := p.workspace.Sync(ctx, path, string(data), history.TriggerGit); err != nil {
		p.logger.Debug("revalidation skipped", "path", path, "error", err)
	}
}

// Stop stops background polling and waits for the loop to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if !running {
		return
	}
	close(p.stopCh)
	<-p.doneCh
}

// Running reports whether the poll loop is active.
func (p *Poller) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// LastCommitSHA returns the commit the workspace was last synced to.
func (p *Poller) LastCommitSHA() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSHA
}

// PollCount returns how many polls have run.
func (p *Poller) PollCount() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pollCount
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
