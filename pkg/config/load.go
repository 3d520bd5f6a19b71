package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "MASOLINT_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// parse decodes YAML on top of the defaults.
func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention MASOLINT_SECTION_FIELD (e.g., MASOLINT_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like LoadConfigWithEnvOverrides, except that an
// empty path or a missing file yields the defaults (with environment
// overrides) instead of an error.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	cfg := Default()
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format MASOLINT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Files overrides
	if val := getenv("FILES_EXTENSIONS"); val != "" {
		cfg.Files.Extensions = splitList(val)
	}

	// Validation overrides
	if val := getenv("VALIDATION_LOCATOR"); val != "" {
		cfg.Validation.Locator = val
	}
	envBool("VALIDATION_STRICT", &cfg.Validation.Strict)

	// Cache overrides
	envBool("CACHE_ENABLED", &cfg.Cache.Enabled)
	envInt("CACHE_SIZE", &cfg.Cache.Size)
	envDuration("CACHE_TTL", &cfg.Cache.TTL)

	// Watch overrides
	if val := getenv("WATCH_PATH"); val != "" {
		cfg.Watch.Path = val
	}
	envDuration("WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	envBool("WATCH_SKIP_HIDDEN", &cfg.Watch.SkipHidden)

	// History overrides
	envBool("HISTORY_ENABLED", &cfg.History.Enabled)
	if val := getenv("HISTORY_DRIVER"); val != "" {
		cfg.History.Driver = val
	}
	if val := getenv("HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	envInt("HISTORY_RETENTION_DAYS", &cfg.History.RetentionDays)
	if val := getenv("HISTORY_PRUNE_SCHEDULE"); val != "" {
		cfg.History.PruneSchedule = val
	}

	// Source overrides
	if val := getenv("SOURCE_REPOSITORY"); val != "" {
		cfg.Source.Repository = val
	}
	if val := getenv("SOURCE_BRANCH"); val != "" {
		cfg.Source.Branch = val
	}
	if val := getenv("SOURCE_AUTH_TOKEN"); val != "" {
		cfg.Source.Auth.Token = val
	}

	// Server overrides
	if val := getenv("SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	envDuration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	// Telemetry overrides
	if val := getenv("TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := getenv("TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	if val := getenv("TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	if val := getenv("TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}

func getenv(name string) string {
	return os.Getenv(EnvPrefix + name)
}

func envBool(name string, dst *bool) {
	if val := getenv(name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(name string, dst *int) {
	if val := getenv(name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := getenv(name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
