package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"maso-hq/masolint/pkg/config"
)

// Result labels for validation runs.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

// ValidationMetrics tracks validation runs.
//
// Metrics:
//   - masolint_validations_total: runs by trigger, mode and result
//   - masolint_validation_duration_seconds: validation latency by mode
//   - masolint_diagnostics_total: diagnostics by severity and kind
//   - masolint_stale_results_total: results discarded for newer edits
//   - masolint_open_documents: documents tracked by the workspace
type ValidationMetrics struct {
	runsTotal        *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	diagnosticsTotal *prometheus.CounterVec
	staleTotal       prometheus.Counter
	openDocuments    prometheus.Gauge
}

// NewValidationMetrics creates and registers validation metrics with the provided registry.
func NewValidationMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total number of validation runs",
			},
			[]string{"trigger", "mode", "result"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Validation latency in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"mode"},
		),

		diagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostics reported",
			},
			[]string{"severity", "kind"},
		),

		staleTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stale_results_total",
				Help:      "Total number of validation results discarded because the document changed",
			},
		),

		openDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "open_documents",
				Help:      "Current number of documents tracked by the workspace",
			},
		),
	}

	registry.MustRegister(
		vm.runsTotal,
		vm.duration,
		vm.diagnosticsTotal,
		vm.staleTotal,
		vm.openDocuments,
	)

	return vm
}

// RecordRun records a validation run. A run is "valid" when it produced
// no errors; warnings do not change the result.
func (vm *ValidationMetrics) RecordRun(trigger, mode string, errors, warnings int, duration time.Duration) {
	if mode == "" {
		mode = "unknown"
	}

	result := ResultValid
	if errors > 0 {
		result = ResultInvalid
	}

	vm.runsTotal.WithLabelValues(trigger, mode, result).Inc()
	if duration > 0 {
		vm.duration.WithLabelValues(mode).Observe(duration.Seconds())
	}
}

// RecordDiagnostic records one diagnostic.
func (vm *ValidationMetrics) RecordDiagnostic(severity, kind string) {
	vm.diagnosticsTotal.WithLabelValues(severity, kind).Inc()
}

// RecordStale records a discarded result.
func (vm *ValidationMetrics) RecordStale() {
	vm.staleTotal.Inc()
}

// SetOpenDocuments sets the open documents gauge.
func (vm *ValidationMetrics) SetOpenDocuments(n int) {
	vm.openDocuments.Set(float64(n))
}
