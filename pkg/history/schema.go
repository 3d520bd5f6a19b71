package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	uri           TEXT NOT NULL,
	run_trigger   TEXT NOT NULL,
	content_hash  TEXT NOT NULL,
	mode          TEXT NOT NULL DEFAULT '',
	valid         INTEGER NOT NULL,
	error_count   INTEGER NOT NULL DEFAULT 0,
	warning_count INTEGER NOT NULL DEFAULT 0,
	diagnostics   TEXT NOT NULL DEFAULT '[]',
	duration_ns   INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_uri_created ON runs(uri, created_at);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at INTEGER NOT NULL
);
`

const insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, ?)`

const selectSchemaVersion = `SELECT COALESCE(MAX(version), 0) FROM schema_version`

const runColumns = `id, uri, run_trigger, content_hash, mode, valid, error_count, warning_count, diagnostics, duration_ns, created_at`

const insertRun = `INSERT INTO runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectRunByID = `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

const countRuns = `SELECT COUNT(*) FROM runs`

const deleteRunsBefore = `DELETE FROM runs WHERE created_at < ?`
