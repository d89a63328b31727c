// metrics.go: pluggable metrics collection.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector receives operation counters and latencies from the
// engine. Implementations must be safe for concurrent use. If nil, the
// engine substitutes NoOpMetricsCollector (zero overhead).
type MetricsCollector interface {
	// RecordGet records a get() outcome and its latency in nanoseconds.
	RecordGet(latencyNs int64, hit bool)

	// RecordSet records a set() latency in nanoseconds.
	RecordSet(latencyNs int64)

	// RecordDelete records a delete() latency in nanoseconds.
	RecordDelete(latencyNs int64)

	// RecordEviction records one entry evicted (LRU tail or GC).
	RecordEviction()

	// RecordExpiration records one entry removed for TTL/staleness.
	RecordExpiration()

	// RecordGCCycle records a completed GC cycle's freed bytes and
	// elapsed nanoseconds.
	RecordGCCycle(freedBytes int64, durationNs int64)

	// SetMemoryUsage reports the current estimated byte usage.
	SetMemoryUsage(bytes int64)

	// SetPressureLevel reports the current pressure level as an ordinal
	// (0=LOW, 1=MEDIUM, 2=HIGH, 3=CRITICAL).
	SetPressureLevel(level int)
}

// NoOpMetricsCollector discards every metric. Used as the default so the
// engine never pays for metrics it wasn't asked to collect.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordGet(latencyNs int64, hit bool)          {}
func (NoOpMetricsCollector) RecordSet(latencyNs int64)                   {}
func (NoOpMetricsCollector) RecordDelete(latencyNs int64)                {}
func (NoOpMetricsCollector) RecordEviction()                             {}
func (NoOpMetricsCollector) RecordExpiration()                           {}
func (NoOpMetricsCollector) RecordGCCycle(freedBytes, durationNs int64)  {}
func (NoOpMetricsCollector) SetMemoryUsage(bytes int64)                  {}
func (NoOpMetricsCollector) SetPressureLevel(level int)                  {}

// PrometheusMetricsCollector implements MetricsCollector against a
// prometheus.Registry. Construct with NewPrometheusMetricsCollector and
// register the returned reg however the host program exposes /metrics.
type PrometheusMetricsCollector struct {
	getLatency    prometheus.Histogram
	setLatency    prometheus.Histogram
	deleteLatency prometheus.Histogram
	hits          prometheus.Counter
	misses        prometheus.Counter
	evictions     prometheus.Counter
	expirations   prometheus.Counter
	gcCycles      prometheus.Counter
	gcFreedBytes  prometheus.Counter
	memoryUsage   prometheus.Gauge
	pressureLevel prometheus.Gauge
}

// NewPrometheusMetricsCollector builds and registers the cache's metric
// family against reg. reg must not be nil.
func NewPrometheusMetricsCollector(reg *prometheus.Registry) *PrometheusMetricsCollector {
	pm := &PrometheusMetricsCollector{
		getLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sentinelcache",
			Name:      "get_latency_ns",
			Help:      "Histogram of get() latencies in nanoseconds.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 12),
		}),
		setLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sentinelcache",
			Name:      "set_latency_ns",
			Help:      "Histogram of set() latencies in nanoseconds.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 12),
		}),
		deleteLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sentinelcache",
			Name:      "delete_latency_ns",
			Help:      "Histogram of delete() latencies in nanoseconds.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 12),
		}),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinelcache", Name: "hits_total", Help: "Number of cache hits.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinelcache", Name: "misses_total", Help: "Number of cache misses.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinelcache", Name: "evictions_total", Help: "Number of entries evicted.",
		}),
		expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinelcache", Name: "expirations_total", Help: "Number of entries removed for staleness.",
		}),
		gcCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinelcache", Name: "gc_cycles_total", Help: "Number of completed GC cycles.",
		}),
		gcFreedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinelcache", Name: "gc_freed_bytes_total", Help: "Cumulative bytes freed by GC.",
		}),
		memoryUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentinelcache", Name: "memory_usage_bytes", Help: "Current estimated memory usage.",
		}),
		pressureLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentinelcache", Name: "pressure_level", Help: "Current memory pressure level (0=LOW..3=CRITICAL).",
		}),
	}

	reg.MustRegister(
		pm.getLatency, pm.setLatency, pm.deleteLatency,
		pm.hits, pm.misses, pm.evictions, pm.expirations,
		pm.gcCycles, pm.gcFreedBytes, pm.memoryUsage, pm.pressureLevel,
	)
	return pm
}

func (m *PrometheusMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	m.getLatency.Observe(float64(latencyNs))
	if hit {
		m.hits.Inc()
	} else {
		m.misses.Inc()
	}
}

func (m *PrometheusMetricsCollector) RecordSet(latencyNs int64) {
	m.setLatency.Observe(float64(latencyNs))
}

func (m *PrometheusMetricsCollector) RecordDelete(latencyNs int64) {
	m.deleteLatency.Observe(float64(latencyNs))
}

func (m *PrometheusMetricsCollector) RecordEviction() { m.evictions.Inc() }

func (m *PrometheusMetricsCollector) RecordExpiration() { m.expirations.Inc() }

func (m *PrometheusMetricsCollector) RecordGCCycle(freedBytes, durationNs int64) {
	m.gcCycles.Inc()
	if freedBytes > 0 {
		m.gcFreedBytes.Add(float64(freedBytes))
	}
}

func (m *PrometheusMetricsCollector) SetMemoryUsage(bytes int64) {
	m.memoryUsage.Set(float64(bytes))
}

func (m *PrometheusMetricsCollector) SetPressureLevel(level int) {
	m.pressureLevel.Set(float64(level))
}
