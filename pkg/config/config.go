package config

import "time"

// Config is the root configuration structure for masolint.
// It contains all configuration sections for document matching, the
// validation engine, the workspace cache and watcher, run history, the
// HTTP server, and telemetry.
type Config struct {
	// Files controls which documents are treated as MASO files.
	Files FilesConfig `yaml:"files"`

	// Validation contains validation engine settings such as the locator
	// strategy and per-kind severity overrides.
	Validation ValidationConfig `yaml:"validation"`

	// Cache contains configuration for the validation result cache.
	Cache CacheConfig `yaml:"cache"`

	// Watch contains configuration for file system watching.
	Watch WatchConfig `yaml:"watch"`

	// History contains configuration for persistent validation run history.
	History HistoryConfig `yaml:"history"`

	// Server contains HTTP API server configuration.
	Server ServerConfig `yaml:"server"`

	// Source contains configuration for validating documents tracked in a
	// Git repository.
	Source SourceConfig `yaml:"source"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// FilesConfig controls document matching.
type FilesConfig struct {
	// Extensions lists the file extensions of MASO documents, including the
	// leading dot. Matching is case-insensitive.
	// Default: [".maso"]
	Extensions []string `yaml:"extensions"`
}

// ValidationConfig contains validation engine settings.
type ValidationConfig struct {
	// Locator selects how diagnostics are anchored in the text.
	// Options: "text" (first line containing the quoted key),
	// "structural" (resolve the violation's path in a node tree)
	// Default: "text"
	Locator string `yaml:"locator"`

	// Severity overrides the severity of violation kinds.
	// Keys are kinds (e.g. "duplicate_id"), values are "error" or "warning".
	// Kinds not listed are errors.
	Severity map[string]string `yaml:"severity"`

	// Strict makes warnings fail the CLI the same way errors do.
	// Default: false
	Strict bool `yaml:"strict"`
}

// CacheConfig contains validation result cache settings.
type CacheConfig struct {
	// Enabled controls whether results are cached by content hash.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Size is the maximum number of cached results.
	// Default: 256
	Size int `yaml:"size"`

	// TTL is how long a cached result stays valid. Zero means no expiry.
	// Default: 10m
	TTL time.Duration `yaml:"ttl"`
}

// WatchConfig contains file system watching settings.
type WatchConfig struct {
	// Path is the file or directory to watch. Directories are watched
	// recursively.
	// Default: "."
	Path string `yaml:"path"`

	// Debounce is how long to wait after the last change to a file before
	// revalidating it.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`

	// SkipHidden skips files and directories whose names start with a dot.
	// Default: true
	SkipHidden bool `yaml:"skip_hidden"`
}

// HistoryConfig contains run history settings.
type HistoryConfig struct {
	// Enabled controls whether validation runs are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver is the database/sql driver name.
	// Options: "sqlite" (modernc.org/sqlite, no cgo), "sqlite3" (mattn/go-sqlite3)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file path.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits for a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// RetentionDays is how many days of runs to keep. A negative value
	// disables pruning.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for the retention pruner.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// ServerConfig contains HTTP API server settings.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:7878"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum keep-alive idle time.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits the size of a submitted document.
	// Default: 4194304 (4MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// SourceConfig configures a Git repository of MASO documents.
type SourceConfig struct {
	// Repository URL (HTTPS, SSH or a local path).
	// Example: "https://github.com/company/workloads.git"
	// Default: "" (no repository)
	Repository string `yaml:"repository"`

	// Branch to track.
	// Default: "main"
	Branch string `yaml:"branch"`

	// Path within the repository to the documents.
	// Default: "" (repository root)
	Path string `yaml:"path"`

	// LocalPath is where the repository is cloned.
	// Default: system temp directory
	LocalPath string `yaml:"local_path"`

	// Depth for shallow clones (0 = full clone).
	// Default: 1
	Depth int `yaml:"depth"`

	// Auth configures Git authentication.
	Auth SourceAuthConfig `yaml:"auth"`

	// PollInterval is the time between pulls when watching.
	// Default: 30s
	PollInterval time.Duration `yaml:"poll_interval"`

	// Timeout bounds each clone or pull.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// SourceAuthConfig configures Git authentication.
type SourceAuthConfig struct {
	// Type: "token", "ssh", "none"
	// Default: "none"
	Type string `yaml:"type"`

	// Token for HTTPS authentication.
	// Required when Type is "token".
	Token string `yaml:"token"`

	// SSHKeyPath for SSH authentication.
	// Required when Type is "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase for encrypted SSH keys.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "masolint"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "" (none)
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for validation duration (seconds).
	// Default: [0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service name in traces.
	// Default: "masolint"
	ServiceName string `yaml:"service_name"`
}
