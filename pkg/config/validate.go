package config

import (
	"fmt"
	"maps"
	"net"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"

	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/maso/document"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateFiles(&cfg.Files)...)
	errs = append(errs, validateValidation(&cfg.Validation)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateSource(&cfg.Source)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateFiles(cfg *FilesConfig) []FieldError {
	var errs []FieldError

	if len(cfg.Extensions) == 0 {
		errs = append(errs, FieldError{
			Field:   "files.extensions",
			Message: "at least one extension is required",
		})
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("files.extensions[%d]", i),
				Message: fmt.Sprintf("invalid extension %q: must start with '.'", ext),
			})
		}
	}

	return errs
}

func validateValidation(cfg *ValidationConfig) []FieldError {
	var errs []FieldError

	if !document.LocatorMode(cfg.Locator).IsValid() {
		errs = append(errs, FieldError{
			Field:   "validation.locator",
			Message: fmt.Sprintf("invalid locator %q: must be 'text' or 'structural'", cfg.Locator),
		})
	}

	for _, kind := range slices.Sorted(maps.Keys(cfg.Severity)) {
		severity := cfg.Severity[kind]
		field := "validation.severity." + kind
		if !diagnostic.Kind(kind).IsValid() {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("unknown diagnostic kind %q", kind),
			})
			continue
		}
		if _, err := diagnostic.ParseSeverity(severity); err != nil {
			errs = append(errs, FieldError{Field: field, Message: err.Error()})
		}
	}

	return errs
}

func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled && cfg.Size < 1 {
		errs = append(errs, FieldError{
			Field:   "cache.size",
			Message: "cache size must be positive when the cache is enabled",
		})
	}
	if cfg.TTL < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.ttl",
			Message: "cache ttl must not be negative",
		})
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must not be negative",
		})
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	validDrivers := map[string]bool{"sqlite": true, "sqlite3": true}
	if !validDrivers[cfg.Driver] {
		errs = append(errs, FieldError{
			Field:   "history.driver",
			Message: fmt.Sprintf("invalid driver %q: must be 'sqlite' or 'sqlite3'", cfg.Driver),
		})
	}

	if cfg.Enabled && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "history.path",
			Message: "database path is required when history is enabled",
		})
	}

	if cfg.MaxOpenConns < 1 {
		errs = append(errs, FieldError{
			Field:   "history.max_open_conns",
			Message: "max open connections must be positive",
		})
	}

	if cfg.RetentionDays > 0 && cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "history.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateSource(cfg *SourceConfig) []FieldError {
	var errs []FieldError

	if cfg.Depth < 0 {
		errs = append(errs, FieldError{Field: "source.depth", Message: "depth must not be negative"})
	}
	if cfg.PollInterval < 0 {
		errs = append(errs, FieldError{Field: "source.poll_interval", Message: "interval must not be negative"})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{Field: "source.timeout", Message: "timeout must not be negative"})
	}

	switch cfg.Auth.Type {
	case "none", "":
	case "token":
		if cfg.Auth.Token == "" {
			errs = append(errs, FieldError{Field: "source.auth.token", Message: "token auth requires non-empty token"})
		}
	case "ssh":
		if cfg.Auth.SSHKeyPath == "" {
			errs = append(errs, FieldError{Field: "source.auth.ssh_key_path", Message: "ssh auth requires ssh_key_path"})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "source.auth.type",
			Message: fmt.Sprintf("invalid auth type %q: must be 'none', 'token', or 'ssh'", cfg.Auth.Type),
		})
	}

	return errs
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: must be host:port", cfg.ListenAddress),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "timeout must not be negative"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "timeout must not be negative"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "timeout must not be negative"})
	}

	if cfg.MaxBodyBytes < 1 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be positive",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/' when metrics are enabled",
		})
	}

	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	for i := 1; i < len(cfg.Metrics.DurationBuckets); i++ {
		if cfg.Metrics.DurationBuckets[i] <= cfg.Metrics.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	return errs
}
