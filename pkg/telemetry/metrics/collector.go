package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"maso-hq/masolint/pkg/config"
)

// Collector owns the Prometheus metrics of a masolint process: validation
// runs, diagnostics, the result cache, open documents and run history.
//
// A Collector built from a disabled configuration accepts every call and
// records nothing, so callers never need to check for nil.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	validation *ValidationMetrics
	cache      *CacheMetrics
	history    *HistoryMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created so collectors never collide in tests.
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	router.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = config.DefaultDurationBuckets()
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.validation = NewValidationMetrics(cfg, registry)
	c.cache = NewCacheMetrics(cfg, registry)
	c.history = NewHistoryMetrics(cfg, registry)

	return c
}

// Disabled returns a collector that records nothing.
func Disabled() *Collector {
	return NewCollector(config.MetricsConfig{Enabled: false}, nil)
}

// Enabled reports whether metrics are being recorded.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// RecordValidation records a completed validation run.
//
// Parameters:
//   - trigger: what started the run ("open", "change", "save", "focus", "command", "cli", "api", "git")
//   - mode: the document's processes.mode, or "unknown"
//   - errors, warnings: diagnostic counts by severity
//   - duration: time spent validating (zero for cache hits)
func (c *Collector) RecordValidation(trigger, mode string, errors, warnings int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.validation.RecordRun(trigger, mode, errors, warnings, duration)
}

// RecordDiagnostic records a single diagnostic by severity and kind.
func (c *Collector) RecordDiagnostic(severity, kind string) {
	if !c.config.Enabled {
		return
	}

	c.validation.RecordDiagnostic(severity, kind)
}

// SetOpenDocuments sets the number of documents tracked by the workspace.
func (c *Collector) SetOpenDocuments(n int) {
	if !c.config.Enabled {
		return
	}

	c.validation.SetOpenDocuments(n)
}

// RecordStaleRun records a validation result discarded because a newer
// edit superseded it.
func (c *Collector) RecordStaleRun() {
	if !c.config.Enabled {
		return
	}

	c.validation.RecordStale()
}

// RecordCacheHit records a cache hit.
func (c *Collector) RecordCacheHit(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cache.RecordHit(cacheName)
}

// RecordCacheMiss records a cache miss.
func (c *Collector) RecordCacheMiss(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cache.RecordMiss(cacheName)
}

// RecordCacheEviction records an entry leaving the cache.
func (c *Collector) RecordCacheEviction(cacheName string) {
	if !c.config.Enabled {
		return
	}

	c.cache.RecordEviction(cacheName)
}

// UpdateCacheSize updates the current size of a cache.
func (c *Collector) UpdateCacheSize(cacheName string, size int) {
	if !c.config.Enabled {
		return
	}

	c.cache.UpdateSize(cacheName, size)
}

// RecordHistoryWrite records an attempt to persist a validation run.
func (c *Collector) RecordHistoryWrite(err error) {
	if !c.config.Enabled {
		return
	}

	c.history.RecordWrite(err)
}

// RecordHistoryPrune records runs deleted by the retention pruner.
func (c *Collector) RecordHistoryPrune(deleted int64) {
	if !c.config.Enabled {
		return
	}

	c.history.RecordPrune(deleted)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
