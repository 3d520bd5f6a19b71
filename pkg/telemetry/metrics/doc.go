// Package metrics provides Prometheus metrics for masolint.
//
// # Metrics
//
//   - masolint_validations_total{trigger,mode,result}
//   - masolint_validation_duration_seconds{mode}
//   - masolint_diagnostics_total{severity,kind}
//   - masolint_stale_results_total
//   - masolint_open_documents
//   - masolint_cache_hits_total{cache}, masolint_cache_misses_total{cache}
//   - masolint_cache_entries{cache}, masolint_cache_evictions_total{cache}
//   - masolint_history_writes_total{status}
//   - masolint_history_pruned_total
//
// Label values are drawn from small fixed sets (triggers, modes, severities,
// violation kinds), so cardinality stays bounded without a limiter.
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.RecordValidation("save", "regular", 2, 0, elapsed)
//	router.Handle("/metrics", collector.Handler())
package metrics
