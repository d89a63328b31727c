// gc.go: pressure-driven garbage collection.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"math"
	"sort"
	"time"
)

const (
	hotKeyMaxIdleMs       = 24 * 60 * 60 * 1000
	smartEvictionTargetPct = 0.20
	aggressiveEvictionTargetPct = 0.40
)

// maybeGCLocked runs a GC cycle if enough time has passed since the last
// one for the current pressure level, or if a full GC is overdue
// regardless of pressure. Caller must hold e.mu.
func (e *Engine) maybeGCLocked(now int64) {
	sinceLast := now - e.stats.lastGC
	if sinceLast >= forcedFullGCIntervalMs {
		e.runFullGCLocked(now)
		return
	}
	if sinceLast >= gcCooldownMs(e.pressure) {
		e.runSmartGCLocked(now)
	}
}

// runSmartGCLocked performs the phased cycle described in the component
// design: expired sweep always; smart eviction on HIGH/CRITICAL; largest
// -first aggressive eviction on CRITICAL only; auxiliary cleanup always.
func (e *Engine) runSmartGCLocked(now int64) GCResult {
	started := time.Now()
	var result GCResult

	freed, removed := e.expiredSweepLocked(now)
	result.FreedBytes += freed
	result.EntriesRemoved += removed

	if e.pressure == PressureHigh || e.pressure == PressureCritical {
		freed, removed = e.weightedEvictLocked(now, smartEvictionTargetPct)
		result.FreedBytes += freed
		result.EntriesRemoved += removed
	}

	if e.pressure == PressureCritical {
		freed, removed = e.largestFirstEvictLocked(aggressiveEvictionTargetPct)
		result.FreedBytes += freed
		result.EntriesRemoved += removed
	}

	e.auxCleanupLocked(now)

	e.stats.lastGC = now
	result.DurationNs = time.Since(started).Nanoseconds()
	e.cfg.MetricsCollector.RecordGCCycle(result.FreedBytes, result.DurationNs)
	return result
}

// runFullGCLocked runs an expired sweep, auxiliary cleanup, a from-scratch
// memory usage recalibration, and an LRU rebuild ordered by descending
// lastAccessed to repair any bookkeeping drift.
func (e *Engine) runFullGCLocked(now int64) GCResult {
	started := time.Now()
	var result GCResult

	freed, removed := e.expiredSweepLocked(now)
	result.FreedBytes += freed
	result.EntriesRemoved += removed

	e.auxCleanupLocked(now)
	e.recalibrateLocked()
	e.lru.rebuild(e.entries)

	e.stats.lastGC = now
	e.stats.lastRecalibration = now
	result.DurationNs = time.Since(started).Nanoseconds()
	e.cfg.MetricsCollector.RecordGCCycle(result.FreedBytes, result.DurationNs)
	return result
}

// expiredSweepLocked removes every entry whose TTL has elapsed.
func (e *Engine) expiredSweepLocked(now int64) (freedBytes int64, removed int) {
	var expired []string
	for k, ent := range e.entries {
		if ent.expired(now) {
			expired = append(expired, k)
		}
	}
	for _, k := range expired {
		ent := e.entries[k]
		freedBytes += ent.size
		e.removeEntryLocked(k, evictionReasonExpired)
		removed++
	}
	return freedBytes, removed
}

// weightedEvictLocked evicts ascending by a weight combining recency,
// frequency, and size, until targetPct of current memoryUsage has been
// freed (or the cache empties).
func (e *Engine) weightedEvictLocked(now int64, targetPct float64) (freedBytes int64, removed int) {
	target := int64(float64(e.stats.memoryUsage) * targetPct)
	if target <= 0 {
		return 0, 0
	}

	type scored struct {
		key    string
		weight float64
	}
	candidates := make([]scored, 0, len(e.entries))
	for k, ent := range e.entries {
		candidates = append(candidates, scored{k, entryWeight(ent, now)})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].weight < candidates[j].weight })

	for _, c := range candidates {
		if freedBytes >= target {
			break
		}
		ent, ok := e.entries[c.key]
		if !ok {
			continue
		}
		freedBytes += ent.size
		e.removeEntryLocked(c.key, evictionReasonGC)
		removed++
	}
	return freedBytes, removed
}

// entryWeight computes 0.4*recency + 0.4*frequency + 0.2*size_inverse per
// the component design's smart-eviction scoring.
func entryWeight(ent *entry, now int64) float64 {
	recency := 1 - float64(now-ent.lastAccessed)/hotKeyMaxIdleMs
	if recency < 0 {
		recency = 0
	}

	frequency := math.Log(float64(ent.accessCount)+1) / 10
	if frequency > 1 {
		frequency = 1
	}

	sizeInverse := 1 - float64(ent.size)/(1024*1024)
	if sizeInverse < 0 {
		sizeInverse = 0
	}

	return 0.4*recency + 0.4*frequency + 0.2*sizeInverse
}

// largestFirstEvictLocked evicts the biggest entries first until
// targetPct of current memoryUsage has been freed.
func (e *Engine) largestFirstEvictLocked(targetPct float64) (freedBytes int64, removed int) {
	target := int64(float64(e.stats.memoryUsage) * targetPct)
	if target <= 0 {
		return 0, 0
	}

	type sized struct {
		key  string
		size int64
	}
	candidates := make([]sized, 0, len(e.entries))
	for k, ent := range e.entries {
		candidates = append(candidates, sized{k, ent.size})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].size > candidates[j].size })

	for _, c := range candidates {
		if freedBytes >= target {
			break
		}
		if _, ok := e.entries[c.key]; !ok {
			continue
		}
		freedBytes += c.size
		e.removeEntryLocked(c.key, evictionReasonGC)
		removed++
	}
	return freedBytes, removed
}

// auxCleanupLocked drops hot-key counters untouched for 24h and reaps
// expired negative-cache entries.
func (e *Engine) auxCleanupLocked(now int64) {
	for base, lastTouched := range e.hotKeys {
		if now-lastTouched > hotKeyMaxIdleMs {
			delete(e.hotKeys, base)
		}
	}
	for key, expiry := range e.negative {
		if now > expiry {
			delete(e.negative, key)
		}
	}
}

// recalibrateLocked recomputes memoryUsage from scratch, correcting any
// drift accumulated between periodic recalibration passes.
func (e *Engine) recalibrateLocked() {
	var total int64
	for _, ent := range e.entries {
		total += ent.size
	}
	e.stats.memoryUsage = total
}
