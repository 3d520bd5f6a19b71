package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "masolint.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
files:
  extensions: [".maso", ".workload"]

validation:
  locator: "structural"
  severity:
    duplicate_id: "warning"

cache:
  enabled: false

history:
  enabled: true
  driver: "sqlite3"
  path: "./runs.db"
  retention_days: 7

server:
  listen_address: "0.0.0.0:9000"
  read_timeout: "5s"

telemetry:
  logging:
    level: "debug"
    format: "json"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Files.Extensions) != 2 || cfg.Files.Extensions[1] != ".workload" {
		t.Errorf("expected extensions [.maso .workload], got %v", cfg.Files.Extensions)
	}
	if cfg.Validation.Locator != "structural" {
		t.Errorf("expected locator %q, got %q", "structural", cfg.Validation.Locator)
	}
	if cfg.Validation.Severity["duplicate_id"] != "warning" {
		t.Errorf("expected duplicate_id warning, got %v", cfg.Validation.Severity)
	}
	if cfg.Cache.Enabled {
		t.Error("expected explicit cache.enabled=false to be preserved")
	}
	if !cfg.History.Enabled || cfg.History.Driver != "sqlite3" || cfg.History.RetentionDays != 7 {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout %v, got %v", 5*time.Second, cfg.Server.ReadTimeout)
	}
	// Unset fields fall back to defaults.
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected write timeout %v, got %v", DefaultWriteTimeout, cfg.Server.WriteTimeout)
	}
	if !cfg.Watch.SkipHidden {
		t.Error("expected watch.skip_hidden to default to true")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/masolint.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got: %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "validation: [unclosed")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got: %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
validation:
  locator: "ast"
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Errors[0].Field != "validation.locator" {
		t.Errorf("expected validation.locator error, got %v", verr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
validation:
  locator: "text"
server:
  listen_address: "127.0.0.1:1"
`)

	t.Setenv("MASOLINT_VALIDATION_LOCATOR", "structural")
	t.Setenv("MASOLINT_SERVER_LISTEN_ADDRESS", "127.0.0.1:2")
	t.Setenv("MASOLINT_HISTORY_ENABLED", "true")
	t.Setenv("MASOLINT_WATCH_DEBOUNCE", "250ms")
	t.Setenv("MASOLINT_FILES_EXTENSIONS", ".maso, .MASO2")
	t.Setenv("MASOLINT_CACHE_SIZE", "not-a-number")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Validation.Locator != "structural" {
		t.Errorf("expected env locator, got %q", cfg.Validation.Locator)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:2" {
		t.Errorf("expected env listen address, got %q", cfg.Server.ListenAddress)
	}
	if !cfg.History.Enabled {
		t.Error("expected history enabled from env")
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.Files.Extensions) != 2 || cfg.Files.Extensions[1] != ".MASO2" {
		t.Errorf("unexpected extensions %v", cfg.Files.Extensions)
	}
	// Unparseable values are ignored.
	if cfg.Cache.Size != DefaultCacheSize {
		t.Errorf("expected cache size %d, got %d", DefaultCacheSize, cfg.Cache.Size)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("MASOLINT_TELEMETRY_LOGGING_LEVEL", "verbose")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil {
		t.Fatal("expected validation error after overrides")
	}
	if !strings.Contains(err.Error(), "after environment overrides") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadOrDefault() error = %v", err)
		}
		if cfg.Validation.Locator != DefaultLocator {
			t.Errorf("expected default locator, got %q", cfg.Validation.Locator)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Setenv("MASOLINT_TELEMETRY_LOGGING_FORMAT", "json")
		cfg, err := LoadOrDefault("")
		if err != nil {
			t.Fatalf("LoadOrDefault() error = %v", err)
		}
		if cfg.Telemetry.Logging.Format != "json" {
			t.Errorf("expected env override, got %q", cfg.Telemetry.Logging.Format)
		}
	})

	t.Run("invalid file is still an error", func(t *testing.T) {
		path := writeConfig(t, "cache:\n  size: -1\n")
		if _, err := LoadOrDefault(path); err == nil {
			t.Error("expected validation error")
		}
	})
}
