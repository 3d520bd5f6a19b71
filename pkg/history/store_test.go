package history

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/maso/validator"
	"maso-hq/masolint/pkg/telemetry/logging"
)

const invalidDoc = `{"processes": {"mode": "typo", "elements": []}}`

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(config.HistoryConfig{
		Driver:       DriverModernc,
		Path:         filepath.Join(t.TempDir(), "history.db"),
		BusyTimeout:  time.Second,
		WALMode:      true,
		MaxOpenConns: 2,
	}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.HistoryConfig{Driver: "postgres", Path: "x.db"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported history driver")
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(config.HistoryConfig{Driver: DriverModernc}, nil)
	require.Error(t, err)
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		path    string
		timeout time.Duration
		want    string
	}{
		{"modernc", DriverModernc, "h.db", 5 * time.Second, "h.db?_pragma=busy_timeout(5000)"},
		{"mattn", DriverMattn, "h.db", 250 * time.Millisecond, "h.db?_busy_timeout=250"},
		{"no timeout", DriverModernc, "h.db", 0, "h.db"},
		{"existing query", DriverMattn, "file:h.db?cache=shared", time.Second, "file:h.db?cache=shared&_busy_timeout=1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.driver, tt.path, tt.timeout))
		})
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	result := validator.NewValidator().Run(invalidDoc)
	run := NewRun("file:///a.maso", TriggerCLI, invalidDoc, result)
	run.Duration = 3 * time.Millisecond
	require.NoError(t, store.Record(ctx, run))

	got, err := store.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.URI, got.URI)
	assert.Equal(t, TriggerCLI, got.Trigger)
	assert.Equal(t, HashContent(invalidDoc), got.ContentHash)
	assert.False(t, got.Valid)
	assert.Equal(t, run.ErrorCount, got.ErrorCount)
	assert.Equal(t, run.Duration, got.Duration)
	assert.Equal(t, run.CreatedAt.UnixNano(), got.CreatedAt.UnixNano())
	require.Len(t, got.Diagnostics, len(run.Diagnostics))
	assert.Equal(t, run.Diagnostics[0].Message, got.Diagnostics[0].Message)

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestStore_GetNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RecordFillsIDAndTime(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	run := &Run{URI: "b.maso", Trigger: TriggerAPI, Valid: true}
	require.NoError(t, store.Record(ctx, run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := store.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Diagnostics)
	assert.Empty(t, got.Diagnostics)
}

func TestStore_ListAndCount(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, uri := range []string{"a.maso", "b.maso", "a.maso", "a.maso"} {
		run := &Run{
			URI:       uri,
			Trigger:   TriggerWatch,
			Valid:     true,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, store.Record(ctx, run))
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	runs, err := store.List(ctx, Query{URI: "a.maso"})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].CreatedAt.After(runs[1].CreatedAt), "newest first")

	runs, err = store.List(ctx, Query{Since: base.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = store.List(ctx, Query{Limit: 1})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, base.Add(3*time.Hour).Equal(runs[0].CreatedAt))
}

func TestStore_DeleteBefore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	now := time.Now().UTC()
	for _, age := range []time.Duration{0, 48 * time.Hour, 72 * time.Hour} {
		require.NoError(t, store.Record(ctx, &Run{URI: "a.maso", Trigger: TriggerCLI, CreatedAt: now.Add(-age)}))
	}

	deleted, err := store.DeleteBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func expectMigrate(mock sqlmock.Sqlmock) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT OR IGNORE INTO schema_version").
		WithArgs(SchemaVersion, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func TestNew_SchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").WillReturnError(errors.New("disk full"))

	_, err = New(db, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create schema")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record_SQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectMigrate(mock)
	store, err := New(db, logging.Discard())
	require.NoError(t, err)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &Run{
		ID:           "run-1",
		URI:          "a.maso",
		Trigger:      TriggerCommand,
		ContentHash:  "abc",
		Mode:         "regular",
		Valid:        true,
		WarningCount: 1,
		CreatedAt:    created,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO runs (")).
		WithArgs("run-1", "a.maso", "command", "abc", "regular", true, 0, 1, "[]", int64(0), created.UnixNano()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Record(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record_SQLError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectMigrate(mock)
	store, err := New(db, logging.Discard())
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO runs").WillReturnError(errors.New("database is locked"))

	err = store.Record(context.Background(), &Run{ID: "run-2", URI: "a.maso"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run-2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get_SQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectMigrate(mock)
	store, err := New(db, logging.Discard())
	require.NoError(t, err)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "uri", "run_trigger", "content_hash", "mode", "valid",
		"error_count", "warning_count", "diagnostics", "duration_ns", "created_at",
	}).AddRow(
		"run-1", "a.maso", "git", "abc", "burst", false,
		1, 0, `[{"severity":"error","message":"boom","kind":"invalid_value","source":"maso"}]`,
		int64(1500), created.UnixNano(),
	)
	mock.ExpectQuery("SELECT (.+) FROM runs WHERE id = ?").WithArgs("run-1").WillReturnRows(rows)

	run, err := store.Get(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, TriggerGit, run.Trigger)
	assert.Equal(t, "burst", run.Mode)
	assert.Equal(t, 1500*time.Nanosecond, run.Duration)
	assert.True(t, created.Equal(run.CreatedAt))
	require.Len(t, run.Diagnostics, 1)
	assert.Equal(t, "boom", run.Diagnostics[0].Message)

	mock.ExpectQuery("SELECT (.+) FROM runs WHERE id = ?").WithArgs("gone").WillReturnError(sql.ErrNoRows)
	_, err = store.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List_SQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectMigrate(mock)
	store, err := New(db, logging.Discard())
	require.NoError(t, err)

	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM runs WHERE uri = ? AND created_at >= ? ORDER BY created_at DESC, id DESC LIMIT ?")).
		WithArgs("a.maso", since.UnixNano(), DefaultListLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	runs, err := store.List(context.Background(), Query{URI: "a.maso", Since: since})
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NotNil(t, runs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
