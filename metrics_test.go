// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNoOpMetricsCollectorDoesNotPanic(t *testing.T) {
	var m MetricsCollector = NoOpMetricsCollector{}
	m.RecordGet(10, true)
	m.RecordSet(10)
	m.RecordDelete(10)
	m.RecordEviction()
	m.RecordExpiration()
	m.RecordGCCycle(100, 10)
	m.SetMemoryUsage(1000)
	m.SetPressureLevel(2)
}

func TestPrometheusMetricsCollectorRecordsObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetricsCollector(reg)

	pm.RecordGet(500, true)
	pm.RecordGet(500, false)
	pm.RecordSet(200)
	pm.RecordDelete(150)
	pm.RecordEviction()
	pm.RecordExpiration()
	pm.RecordGCCycle(1024, 5000)
	pm.SetMemoryUsage(2048)
	pm.SetPressureLevel(1)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected at least one registered metric family")
	}

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"sentinelcache_get_latency_ns",
		"sentinelcache_hits_total",
		"sentinelcache_misses_total",
		"sentinelcache_memory_usage_bytes",
		"sentinelcache_pressure_level",
	} {
		if !names[want] {
			t.Errorf("expected metric family %q to be registered, got %v", want, names)
		}
	}
}
