// engine.go: the composed cache façade: map, LRU, stats, and the mutex
// that serializes every structural operation.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Engine is the cache's public façade. All exported methods are safe for
// concurrent use: each runs to completion under a single fair mutex, so
// operations are linearizable with respect to one another.
type Engine struct {
	mu sync.Mutex

	cfg   Config
	clock Clock

	entries map[string]*entry
	lru     *lruIndex
	deps    *dependencyGraph
	watchers *watcherRegistry

	negative map[string]int64 // key -> expiry ms, distinct from entries

	enc    *encryptor
	access *accessController

	stats      runtimeStats
	thresholds PressureThresholds
	pressure   PressureLevel

	hotKeys map[string]int64 // base key -> last-touched ms

	inflight singleflight.Group

	stopCh    chan struct{}
	wg        sync.WaitGroup
	destroyed bool
}

// New constructs an Engine from cfg, filling defaults and validating
// encryption/access-control settings via Config.Validate.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		clock:      cfg.Clock,
		entries:    make(map[string]*entry),
		lru:        newLRUIndex(),
		deps:       newDependencyGraph(),
		negative:   make(map[string]int64),
		hotKeys:    make(map[string]int64),
		thresholds: DefaultPressureThresholds(),
		stopCh:     make(chan struct{}),
	}
	e.watchers = newWatcherRegistry(e)

	if cfg.AccessControl != nil {
		e.access = newAccessController(cfg.AccessControl)
	}

	if cfg.EncryptionEnabled {
		enc, err := newEncryptor(cfg.EncryptionKey, cfg.SensitivePatterns)
		if err != nil {
			return nil, err
		}
		e.enc = enc
	}

	e.wg.Add(2)
	go e.sweepLoop()
	go e.statsLoop()

	return e, nil
}

// sweepLoop is the background TTL/GC ticker: one goroutine, one interval,
// exits on stopCh.
func (e *Engine) sweepLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.mu.Lock()
			e.recomputePressureLocked()
			e.maybeGCLocked(e.clock.NowMillis())
			e.mu.Unlock()
		case <-e.stopCh:
			return
		}
	}
}

// statsLoop is the periodic stats updater: it recalibrates memoryUsage from
// scratch on StatsInterval, a cadence independent of the GC sweep.
func (e *Engine) statsLoop() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.mu.Lock()
			e.recalibrateLocked()
			e.stats.lastRecalibration = e.clock.NowMillis()
			e.mu.Unlock()
		case <-e.stopCh:
			return
		}
	}
}

// Set stores value under key with an optional explicit TTL (seconds; 0
// uses the configured default) and options.
func (e *Engine) Set(key string, value interface{}, ttlSeconds int64, opts SetOptions) error {
	if key == "" {
		return NewErrInvalidInput("key must not be empty")
	}
	if isAbsent(value) {
		return NewErrInvalidInput("value must not be the absent sentinel")
	}

	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.setLocked(key, value, ttlSeconds, opts)
	e.cfg.MetricsCollector.RecordSet(time.Since(start).Nanoseconds())
	return err
}

func (e *Engine) setLocked(key string, value interface{}, ttlSeconds int64, opts SetOptions) error {
	if !e.access.allow(OpSet, key) {
		return NewErrAccessDenied(string(OpSet), key)
	}

	version := ""
	effKey := key
	if e.cfg.VersionAwareMode {
		version = resolveVersion(e.clock, opts.Version)
		effKey = makeEffectiveKey(key, version)
	}

	storedValue := value
	encrypted := false
	if e.enc != nil && e.enc.sensitive(key, value) {
		rec, err := e.enc.encrypt(key, value)
		if err != nil {
			return err
		}
		storedValue = rec
		encrypted = true
	}

	if ttlSeconds <= 0 {
		ttlSeconds = int64(e.cfg.DefaultTTL / time.Second)
	}

	sizeNew := estimateSize(effKey, storedValue, e.cfg.PreciseMemoryCalculation, 0)

	existingOld, isReplace := e.entries[effKey]
	oldSize := int64(0)
	if isReplace {
		oldSize = existingOld.size
	}
	delta := sizeNew - oldSize

	if err := e.makeRoomLocked(effKey, delta, !isReplace); err != nil {
		return err
	}

	now := e.clock.NowMillis()
	fileTimestamp := int64(0)
	if opts.SourceFile != "" {
		if info, err := os.Stat(opts.SourceFile); err == nil {
			fileTimestamp = info.ModTime().UnixMilli()
		}
	}

	newEntry := &entry{
		value:         storedValue,
		size:          sizeNew,
		created:       now,
		lastAccessed:  now,
		ttlSeconds:    ttlSeconds,
		encrypted:     encrypted,
		version:       version,
		dependencies:  opts.Dependencies,
		sourceFile:    opts.SourceFile,
		fileTimestamp: fileTimestamp,
	}

	if isReplace {
		e.lru.remove(existingOld.elem)
		e.stats.memoryUsage -= existingOld.size
		e.deps.removeKeyEverywhere(effKey)
	}
	newEntry.elem = e.lru.pushFront(effKey)
	e.entries[effKey] = newEntry
	e.stats.memoryUsage += sizeNew

	base, _ := effectiveKey(effKey)
	if opts.SourceFile != "" || len(opts.Dependencies) > 0 {
		go e.watchers.registerWatchers(effKey, opts.SourceFile, opts.Dependencies)
	}
	if e.cfg.VersionAwareMode {
		go e.cleanupOldVersions(base)
	}

	return nil
}

// makeRoomLocked evicts from the LRU tail, skipping protectedKey, until
// memoryUsage+delta fits within MaxMemory and (if countsToward is true)
// len(entries)+1 fits within MaxEntries, or the list is exhausted. It
// pre-checks feasibility before evicting anything: if even emptying every
// other entry could not make delta fit, it fails immediately and leaves
// the cache untouched, rather than evicting the whole tail and then
// discovering the insert still doesn't fit.
func (e *Engine) makeRoomLocked(protectedKey string, delta int64, countsToward bool) error {
	floorMemory := int64(0)
	if existing, ok := e.entries[protectedKey]; ok {
		floorMemory = existing.size
	}
	if floorMemory+delta > e.cfg.MaxMemory {
		return NewErrMemoryLimitExceeded(protectedKey, delta, e.cfg.MaxMemory)
	}

	for {
		overMemory := e.stats.memoryUsage+delta > e.cfg.MaxMemory
		overCount := countsToward && len(e.entries)+1 > e.cfg.MaxEntries
		if !overMemory && !overCount {
			break
		}

		victim := e.lru.back()
		for victim != nil && victim.Value.(string) == protectedKey {
			victim = victim.Prev()
		}
		if victim == nil {
			break
		}
		e.removeEntryLocked(victim.Value.(string), evictionReasonCapacity)
	}

	overMemory := e.stats.memoryUsage+delta > e.cfg.MaxMemory
	overCount := countsToward && len(e.entries)+1 > e.cfg.MaxEntries
	if overMemory {
		return NewErrMemoryLimitExceeded(protectedKey, delta, e.cfg.MaxMemory)
	}
	if overCount {
		return NewErrCacheFull(e.cfg.MaxEntries, len(e.entries))
	}
	return nil
}

// removeEntryLocked deletes effKey from the map, LRU, and dependency
// graph, firing the configured callback and metric for reason. Caller
// must hold e.mu. Single-entry removals from every source (explicit
// delete, capacity eviction, GC, watcher invalidation, version cleanup)
// funnel through it; Clear and Destroy drop the whole map at once without
// calling it.
func (e *Engine) removeEntryLocked(effKey string, reason evictionReason) bool {
	ent, ok := e.entries[effKey]
	if !ok {
		return false
	}

	delete(e.entries, effKey)
	e.lru.remove(ent.elem)
	e.stats.memoryUsage -= ent.size
	e.deps.removeKeyEverywhere(effKey)

	switch reason {
	case evictionReasonExpired, evictionReasonDependencyChanged:
		e.stats.expirations++
		e.cfg.MetricsCollector.RecordExpiration()
		if e.cfg.OnExpire != nil {
			e.cfg.OnExpire(effKey, ent.value)
		}
	case evictionReasonExplicit:
		// user-initiated delete: no eviction/expiration metric
	default:
		e.stats.evictions++
		e.cfg.MetricsCollector.RecordEviction()
		if e.cfg.OnEvict != nil {
			e.cfg.OnEvict(effKey, ent.value)
		}
	}

	return true
}

// cleanupOldVersions drops all but the two most recent effective keys
// sharing base, scheduled asynchronously by setLocked.
func (e *Engine) cleanupOldVersions(base string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, k := range oldVersionsToRemove(e.entries, base) {
		e.removeEntryLocked(k, evictionReasonVersionCleanup)
	}
}

// Get resolves key (optionally to a specific version) and returns its
// value, or (nil, false, nil) if absent. Freshness-check failures are
// recovered locally: the stale entry is removed and the call reports a
// miss, never an error.
func (e *Engine) Get(key string, opts GetOptions) (interface{}, bool, error) {
	if key == "" {
		return nil, false, NewErrInvalidInput("key must not be empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.getLocked(key, opts)
}

// getLocked is Get's body, assuming e.mu is already held. Shared by Get
// and GetMany so a batch resolves every key under one mutex acquisition.
func (e *Engine) getLocked(key string, opts GetOptions) (interface{}, bool, error) {
	start := time.Now()

	if !e.access.allow(OpGet, key) {
		return nil, false, NewErrAccessDenied(string(OpGet), key)
	}

	effKey, ent, found := e.resolveForReadLocked(key, opts)
	now := e.clock.NowMillis()

	if found {
		if stale, reason := e.staleLocked(ent, opts, now); stale {
			e.removeEntryLocked(effKey, reason)
			found = false
		}
	}

	if !found {
		e.stats.misses++
		e.cfg.MetricsCollector.RecordGet(time.Since(start).Nanoseconds(), false)
		return nil, false, nil
	}

	ent.lastAccessed = now
	ent.accessCount++
	e.lru.moveToFront(ent.elem)
	e.stats.hits++

	base, _ := effectiveKey(effKey)
	e.hotKeys[base] = now

	var value interface{} = ent.value
	if ent.encrypted {
		decrypted, err := e.enc.decrypt(key, ent.value.(*cipherRecord))
		if err != nil {
			e.cfg.MetricsCollector.RecordGet(time.Since(start).Nanoseconds(), true)
			return nil, false, err
		}
		value = decrypted
	}

	elapsed := time.Since(start).Nanoseconds()
	e.stats.recordAccessTime(elapsed)
	e.cfg.MetricsCollector.RecordGet(elapsed, true)

	return value, true, nil
}

// resolveForReadLocked finds the effective key and entry for a read,
// performing latest-version resolution when no explicit version is given
// in version-aware mode.
func (e *Engine) resolveForReadLocked(key string, opts GetOptions) (string, *entry, bool) {
	if !e.cfg.VersionAwareMode {
		ent, ok := e.entries[key]
		return key, ent, ok
	}

	if opts.Version != "" {
		effKey := makeEffectiveKey(key, opts.Version)
		ent, ok := e.entries[effKey]
		return effKey, ent, ok
	}

	effKey, ent, ok := latestVersion(e.entries, key)
	return effKey, ent, ok
}

// staleLocked applies the freshness checks in order: TTL, source-file
// mtime, dependency mtimes. Returns the removal reason for the first
// failure encountered.
func (e *Engine) staleLocked(ent *entry, opts GetOptions, now int64) (bool, evictionReason) {
	if ent.expired(now) {
		return true, evictionReasonExpired
	}

	if ent.sourceFile != "" && ent.fileTimestamp != 0 {
		info, err := os.Stat(ent.sourceFile)
		if err != nil || info.ModTime().UnixMilli() > ent.fileTimestamp {
			return true, evictionReasonDependencyChanged
		}
	}

	if opts.validateDependencies(e.cfg.VersionAwareMode) && len(ent.dependencies) > 0 {
		for _, dep := range ent.dependencies {
			info, err := os.Stat(dep)
			if err != nil || info.ModTime().UnixMilli() > ent.created {
				return true, evictionReasonDependencyChanged
			}
		}
	}

	return false, 0
}

// Delete removes key (its latest version, in version-aware mode) and
// reports whether an entry was present.
func (e *Engine) Delete(key string) (bool, error) {
	if key == "" {
		return false, NewErrInvalidInput("key must not be empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deleteLocked(key)
}

// deleteLocked is Delete's body, assuming e.mu is already held. Shared by
// Delete and DeleteMany so a batch removes every key under one mutex
// acquisition.
func (e *Engine) deleteLocked(key string) (bool, error) {
	start := time.Now()

	if !e.access.allow(OpDelete, key) {
		return false, NewErrAccessDenied(string(OpDelete), key)
	}

	effKey := key
	if e.cfg.VersionAwareMode {
		if resolved, _, ok := latestVersion(e.entries, key); ok {
			effKey = resolved
		}
	}

	removed := e.removeEntryLocked(effKey, evictionReasonExplicit)
	e.cfg.MetricsCollector.RecordDelete(time.Since(start).Nanoseconds())
	return removed, nil
}

// Clear drops every entry and resets all counters, including the
// historical hit/miss totals.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.access.allow(OpClear, "") {
		return NewErrAccessDenied(string(OpClear), "")
	}

	e.entries = make(map[string]*entry)
	e.lru = newLRUIndex()
	e.deps = newDependencyGraph()
	e.negative = make(map[string]int64)
	e.hotKeys = make(map[string]int64)
	e.stats = runtimeStats{}
	return nil
}

// SetMany stores each item in order under a single mutex acquisition.
// There is no batch-wide capacity pre-check: each item goes through the
// same room-making as Set, so an item too large to fit even in an
// otherwise empty cache is rejected into Failed before anything is
// evicted for it, while an item that does fit may evict entries,
// including ones stored earlier in the same batch.
func (e *Engine) SetMany(items []SetItem) SetManyResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result SetManyResult
	for _, item := range items {
		if item.Key == "" || isAbsent(item.Value) {
			result.Failed = append(result.Failed, SetFailure{Key: item.Key, Reason: "invalid input"})
			continue
		}
		if err := e.setLocked(item.Key, item.Value, item.TTL, item.Options); err != nil {
			result.Failed = append(result.Failed, SetFailure{Key: item.Key, Reason: err.Error()})
			continue
		}
		result.Success = append(result.Success, item.Key)
	}
	return result
}

// GetMany resolves each key independently under a single mutex
// acquisition, splitting results into Found and Missing.
func (e *Engine) GetMany(keys []string, opts GetOptions) GetManyResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result GetManyResult
	for _, key := range keys {
		if key == "" {
			result.Missing = append(result.Missing, key)
			continue
		}
		value, found, err := e.getLocked(key, opts)
		if err != nil || !found {
			result.Missing = append(result.Missing, key)
			continue
		}
		result.Found = append(result.Found, KeyValue{Key: key, Value: value})
	}
	return result
}

// DeleteMany deletes each key under a single mutex acquisition, reporting
// which were present.
func (e *Engine) DeleteMany(keys []string) DeleteManyResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result DeleteManyResult
	for _, key := range keys {
		if key == "" {
			result.Failed = append(result.Failed, key)
			continue
		}
		removed, err := e.deleteLocked(key)
		if err != nil || !removed {
			result.Failed = append(result.Failed, key)
			continue
		}
		result.Success = append(result.Success, key)
	}
	return result
}

// GetStats returns a snapshot of the engine's aggregate counters.
func (e *Engine) GetStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		Hits:            uint64(e.stats.hits),
		Misses:          uint64(e.stats.misses),
		TotalEntries:    len(e.entries),
		MemoryUsage:     e.stats.memoryUsage,
		Evictions:       uint64(e.stats.evictions),
		Expirations:     uint64(e.stats.expirations),
		AvgAccessTimeNs: e.stats.movingAvgAccessNs,
		PressureLevel:   e.pressure,
	}
}

// ForceGC runs one GC cycle immediately: a smart cycle by default, or a
// full cycle (expired sweep, aux cleanup, recalibration, LRU rebuild)
// when aggressive is true.
func (e *Engine) ForceGC(aggressive bool) GCResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.NowMillis()
	if aggressive {
		return e.runFullGCLocked(now)
	}
	return e.runSmartGCLocked(now)
}

// SetMemoryPressureThresholds overrides the utilization boundaries used
// to classify pressure level. Zero fields keep their current value.
func (e *Engine) SetMemoryPressureThresholds(t PressureThresholds) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t.Low > 0 {
		e.thresholds.Low = t.Low
	}
	if t.Medium > 0 {
		e.thresholds.Medium = t.Medium
	}
	if t.High > 0 {
		e.thresholds.High = t.High
	}
	if t.Critical > 0 {
		e.thresholds.Critical = t.Critical
	}
}

func (e *Engine) recomputePressureLocked() {
	if e.cfg.MaxMemory <= 0 {
		return
	}
	u := float64(e.stats.memoryUsage) / float64(e.cfg.MaxMemory)
	e.pressure = e.thresholds.classify(u)
	e.cfg.MetricsCollector.SetPressureLevel(int(e.pressure))
	e.cfg.MetricsCollector.SetMemoryUsage(e.stats.memoryUsage)
}

// SetupFileWatcher registers a platform watcher on path without
// attaching it to any key's dependency list, useful for callers that
// want proactive invalidation wiring ahead of the first Set. If key is
// non-empty, it is also registered as a dependent of path.
func (e *Engine) SetupFileWatcher(path string, key string) bool {
	if path == "" {
		return false
	}
	e.watchers.ensureWatcher(path)
	if key != "" {
		e.mu.Lock()
		e.deps.add(path, key)
		e.mu.Unlock()
	}
	return true
}

// StopFileWatcher closes path's watcher and drops its dependent set.
func (e *Engine) StopFileWatcher(path string) bool {
	return e.watchers.stop(path)
}

// Destroy stops all periodic tasks, closes every watcher, and clears all
// state. Idempotent.
func (e *Engine) Destroy() error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return nil
	}
	e.destroyed = true
	e.mu.Unlock()

	close(e.stopCh)
	e.wg.Wait()
	e.watchers.stopAll()

	e.mu.Lock()
	e.entries = make(map[string]*entry)
	e.lru = newLRUIndex()
	e.deps = newDependencyGraph()
	e.negative = make(map[string]int64)
	e.hotKeys = make(map[string]int64)
	e.stats = runtimeStats{}
	e.mu.Unlock()

	return nil
}
