package config

import "time"

// Default values for configuration fields.
const (
	// Validation defaults
	DefaultLocator          = "text"
	DefaultValidationStrict = false

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheSize    = 256
	DefaultCacheTTL     = 10 * time.Minute

	// Watch defaults
	DefaultWatchPath       = "."
	DefaultWatchDebounce   = 100 * time.Millisecond
	DefaultWatchSkipHidden = true

	// History defaults
	DefaultHistoryEnabled       = false
	DefaultHistoryDriver        = "sqlite"
	DefaultHistoryPath          = "data/history.db"
	DefaultHistoryBusyTimeout   = 5 * time.Second
	DefaultHistoryWALMode       = true
	DefaultHistoryMaxOpenConns  = 4
	DefaultHistoryRetentionDays = 30
	DefaultHistoryPruneSchedule = "0 3 * * *"

	// Source defaults
	DefaultSourceBranch       = "main"
	DefaultSourceDepth        = 1
	DefaultSourceAuthType     = "none"
	DefaultSourcePollInterval = 30 * time.Second
	DefaultSourceTimeout      = 30 * time.Second

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:7878"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = int64(4 << 20)

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultLogAddSource     = false
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "masolint"
	DefaultTracingSampler   = "ratio"
	DefaultTracingRatio     = 0.1
	DefaultTracingEndpoint  = "localhost:4317"
	DefaultTracingTimeout   = 10 * time.Second
	DefaultServiceName      = "masolint"
)

// DefaultExtensions returns the default MASO file extensions.
func DefaultExtensions() []string {
	return []string{".maso"}
}

// DefaultDurationBuckets returns the default validation duration buckets.
// Validation of a typical document takes well under a millisecond.
func DefaultDurationBuckets() []float64 {
	return []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5}
}

// Default returns a configuration with every field set to its default.
// Boolean fields are only defaulted here: LoadConfig decodes YAML on top of
// this value so that an explicit false in the file is preserved.
func Default() *Config {
	cfg := &Config{
		Validation: ValidationConfig{Strict: DefaultValidationStrict},
		Cache:      CacheConfig{Enabled: DefaultCacheEnabled},
		Watch:      WatchConfig{SkipHidden: DefaultWatchSkipHidden},
		History: HistoryConfig{
			Enabled: DefaultHistoryEnabled,
			WALMode: DefaultHistoryWALMode,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{AddSource: DefaultLogAddSource},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Files defaults
	if len(cfg.Files.Extensions) == 0 {
		cfg.Files.Extensions = DefaultExtensions()
	}

	// Validation defaults
	if cfg.Validation.Locator == "" {
		cfg.Validation.Locator = DefaultLocator
	}
	if cfg.Validation.Severity == nil {
		cfg.Validation.Severity = map[string]string{}
	}

	// Cache defaults
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = DefaultCacheSize
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}

	// Watch defaults
	if cfg.Watch.Path == "" {
		cfg.Watch.Path = DefaultWatchPath
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	applyHistoryDefaults(cfg)
	applySourceDefaults(cfg)

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = DefaultDurationBuckets()
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultServiceName
	}
}

func applySourceDefaults(cfg *Config) {
	if cfg.Source.Branch == "" {
		cfg.Source.Branch = DefaultSourceBranch
	}
	if cfg.Source.Depth == 0 {
		cfg.Source.Depth = DefaultSourceDepth
	}
	if cfg.Source.Auth.Type == "" {
		cfg.Source.Auth.Type = DefaultSourceAuthType
	}
	if cfg.Source.PollInterval == 0 {
		cfg.Source.PollInterval = DefaultSourcePollInterval
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = DefaultSourceTimeout
	}
}

func applyHistoryDefaults(cfg *Config) {
	if cfg.History.Driver == "" {
		cfg.History.Driver = DefaultHistoryDriver
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.BusyTimeout == 0 {
		cfg.History.BusyTimeout = DefaultHistoryBusyTimeout
	}
	if cfg.History.MaxOpenConns == 0 {
		cfg.History.MaxOpenConns = DefaultHistoryMaxOpenConns
	}
	if cfg.History.RetentionDays == 0 {
		cfg.History.RetentionDays = DefaultHistoryRetentionDays
	}
	if cfg.History.PruneSchedule == "" {
		cfg.History.PruneSchedule = DefaultHistoryPruneSchedule
	}
}
