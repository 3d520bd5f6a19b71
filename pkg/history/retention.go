package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/telemetry/metrics"
)

// Deleter removes runs older than a cutoff.
type Deleter interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pruner deletes runs older than the retention period.
type Pruner struct {
	store         Deleter
	retentionDays int
	schedule      string
	metrics       *metrics.Collector
	logger        *slog.Logger
	now           func() time.Time
}

// NewPruner creates a pruner for store using the retention settings in
// cfg. A nil collector disables metrics.
func NewPruner(store Deleter, cfg config.HistoryConfig, collector *metrics.Collector, logger *slog.Logger) *Pruner {
	if collector == nil {
		collector = metrics.Disabled()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:         store,
		retentionDays: cfg.RetentionDays,
		schedule:      cfg.PruneSchedule,
		metrics:       collector,
		logger:        logger.With("component", "history.retention"),
		now:           time.Now,
	}
}

// Cutoff returns the creation time before which runs are pruned.
func (p *Pruner) Cutoff() time.Time {
	return p.now().AddDate(0, 0, -p.retentionDays)
}

// Prune deletes runs older than retention_days and returns how many were
// deleted. A retention of zero or less keeps every run.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.retentionDays <= 0 {
		p.logger.Debug("retention disabled, nothing pruned")
		return 0, nil
	}

	cutoff := p.Cutoff()
	deleted, err := p.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune runs older than %d days: %w", p.retentionDays, err)
	}
	p.metrics.RecordHistoryPrune(deleted)

	if deleted == 0 {
		p.logger.Debug("no runs pruned", "retention_days", p.retentionDays)
	} else {
		p.logger.Info("history pruning completed",
			"deleted_count", deleted,
			"retention_days", p.retentionDays,
			"cutoff", cutoff,
		)
	}
	return deleted, nil
}

// Scheduler runs a Pruner on a cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a scheduler for pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: pruner.logger.With("component", "history.scheduler"),
	}
}

// Start schedules pruning using the standard five-field cron expression
// from prune_schedule, e.g. "0 3 * * *" for daily at 3 AM. An empty
// schedule or disabled retention leaves the scheduler idle. The scheduler
// stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.pruner.schedule == "" || s.pruner.retentionDays <= 0 {
		s.logger.Info("history pruning not scheduled")
		return nil
	}

	if _, err := cron.ParseStandard(s.pruner.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.pruner.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.pruner.schedule, func() {
		s.runPruning(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("history scheduler started",
		"schedule", s.pruner.schedule,
		"retention_days", s.pruner.retentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runPruning(ctx context.Context) {
	if _, err := s.pruner.Prune(ctx); err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
	}
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("history scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled pruning time, or nil if nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
