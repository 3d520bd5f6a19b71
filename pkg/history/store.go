package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/maso/diagnostic"
)

// Driver names accepted by Open.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

const memoryPath = ":memory:"

// Store persists validation runs in SQLite. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the history database described by cfg
// and applies the schema.
func Open(cfg config.HistoryConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := cfg.Driver
	if driver == "" {
		driver = DriverModernc
	}
	if driver != DriverModernc && driver != DriverMattn {
		return nil, fmt.Errorf("unsupported history driver %q (must be %s or %s)", driver, DriverModernc, DriverMattn)
	}
	if cfg.Path == "" {
		return nil, errors.New("history path is required")
	}

	if cfg.Path != memoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driver, buildDSN(driver, cfg.Path, cfg.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	if cfg.Path == memoryPath {
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.WALMode && cfg.Path != memoryPath {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	store, err := New(db, logger.With("driver", driver, "path", cfg.Path))
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an open database and applies the schema. The store takes
// ownership of db.
func New(db *sql.DB, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		db:     db,
		logger: logger.With("component", "history.store"),
	}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// buildDSN sets the busy timeout on every pooled connection. The two
// drivers spell it differently.
func buildDSN(driver, path string, busyTimeout time.Duration) string {
	if busyTimeout <= 0 {
		return path
	}
	ms := busyTimeout.Milliseconds()
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	if driver == DriverMattn {
		return fmt.Sprintf("%s%s_busy_timeout=%d", path, sep, ms)
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", path, sep, ms)
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, insertSchemaVersion, SchemaVersion, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// SchemaVersion returns the highest applied schema version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, selectSchemaVersion).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Record inserts run. Missing ID and CreatedAt are filled in.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	diags, err := json.Marshal(nonNil(run.Diagnostics))
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}

	_, err = s.db.ExecContext(ctx, insertRun,
		run.ID,
		run.URI,
		string(run.Trigger),
		run.ContentHash,
		run.Mode,
		run.Valid,
		run.ErrorCount,
		run.WarningCount,
		string(diags),
		int64(run.Duration),
		run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	s.logger.Debug("recorded run",
		"run_id", run.ID,
		"uri", run.URI,
		"trigger", run.Trigger,
		"valid", run.Valid,
	)
	return nil
}

// Get returns the run with the given ID or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, selectRunByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// List returns runs matching q, newest first.
func (s *Store) List(ctx context.Context, q Query) ([]*Run, error) {
	var (
		conditions []string
		args       []any
	)
	if q.URI != "" {
		conditions = append(conditions, "uri = ?")
		args = append(args, q.URI)
	}
	if !q.Since.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, q.Since.UnixNano())
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := "SELECT " + runColumns + " FROM runs"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// Count returns the number of stored runs.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, countRuns).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

// DeleteBefore removes runs created before cutoff and returns how many
// were deleted.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, deleteRunsBefore, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run       Run
		trigger   string
		diags     string
		duration  int64
		createdAt int64
	)
	err := row.Scan(
		&run.ID,
		&run.URI,
		&trigger,
		&run.ContentHash,
		&run.Mode,
		&run.Valid,
		&run.ErrorCount,
		&run.WarningCount,
		&diags,
		&duration,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	run.Trigger = Trigger(trigger)
	run.Duration = time.Duration(duration)
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	if err := json.Unmarshal([]byte(diags), &run.Diagnostics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal diagnostics for run %s: %w", run.ID, err)
	}
	run.Diagnostics = nonNil(run.Diagnostics)
	return &run, nil
}

func nonNil(diags []diagnostic.Diagnostic) []diagnostic.Diagnostic {
	if diags == nil {
		return []diagnostic.Diagnostic{}
	}
	return diags
}
