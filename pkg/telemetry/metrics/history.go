package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"maso-hq/masolint/pkg/config"
)

// HistoryMetrics tracks the run history store.
//
// Metrics:
//   - masolint_history_writes_total: writes by status ("ok", "error")
//   - masolint_history_pruned_total: runs deleted by retention
type HistoryMetrics struct {
	writesTotal *prometheus.CounterVec
	prunedTotal prometheus.Counter
}

// NewHistoryMetrics creates and registers history metrics with the provided registry.
func NewHistoryMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "history_writes_total",
				Help:      "Total number of validation runs written to history",
			},
			[]string{"status"},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "history_pruned_total",
				Help:      "Total number of validation runs deleted by retention",
			},
		),
	}

	registry.MustRegister(hm.writesTotal, hm.prunedTotal)

	return hm
}

// RecordWrite records a history write.
func (hm *HistoryMetrics) RecordWrite(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	hm.writesTotal.WithLabelValues(status).Inc()
}

// RecordPrune records deleted runs.
func (hm *HistoryMetrics) RecordPrune(deleted int64) {
	if deleted > 0 {
		hm.prunedTotal.Add(float64(deleted))
	}
}
