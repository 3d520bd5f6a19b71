package workspace

import (
	"github.com/hashicorp/golang-lru/v2/expirable"

	"maso-hq/masolint/pkg/config"
	"maso-hq/masolint/pkg/history"
	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/maso/validator"
	"maso-hq/masolint/pkg/telemetry/metrics"
)

// cacheName labels the result cache in metrics.
const cacheName = "results"

// ResultCache maps document text (by SHA-256) to its validation result.
// Validation is pure, so identical text always yields identical
// diagnostics. A nil *ResultCache is valid and never hits.
type ResultCache struct {
	lru     *expirable.LRU[string, validator.Result]
	metrics *metrics.Collector
}

// NewResultCache creates a cache from cfg. It returns nil when caching is
// disabled.
func NewResultCache(cfg config.CacheConfig, collector *metrics.Collector) *ResultCache {
	if !cfg.Enabled || cfg.Size <= 0 {
		return nil
	}
	if collector == nil {
		collector = metrics.Disabled()
	}

	c := &ResultCache{metrics: collector}
	c.lru = expirable.NewLRU(cfg.Size, func(string, validator.Result) {
		c.metrics.RecordCacheEviction(cacheName)
	}, cfg.TTL)
	return c
}

// Get returns a copy of the cached result for text.
func (c *ResultCache) Get(text string) (validator.Result, bool) {
	if c == nil {
		return validator.Result{}, false
	}
	result, ok := c.lru.Get(history.HashContent(text))
	if !ok {
		c.metrics.RecordCacheMiss(cacheName)
		return validator.Result{}, false
	}
	c.metrics.RecordCacheHit(cacheName)
	result.Diagnostics = diagnostic.Clone(result.Diagnostics)
	return result, true
}

// Add stores result for text.
func (c *ResultCache) Add(text string, result validator.Result) {
	if c == nil {
		return
	}
	result.Diagnostics = diagnostic.Clone(result.Diagnostics)
	c.lru.Add(history.HashContent(text), result)
	c.metrics.UpdateCacheSize(cacheName, c.lru.Len())
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge drops every cached result.
func (c *ResultCache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
	c.metrics.UpdateCacheSize(cacheName, 0)
}
