// watcher.go: per-path file watcher registry built on argus.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"time"

	"github.com/agilira/argus"
)

// defaultWatcherPollInterval matches the engine's own responsiveness goal
// for dependency invalidation: fast enough that a test touching a file
// sees the effect well inside a test timeout, slow enough not to hammer
// the filesystem on every tick.
const defaultWatcherPollInterval = 200 * time.Millisecond

// watcherRegistry owns one argus.Watcher per watched path. It is a
// bookkeeping layer over the engine's dependencyGraph: a path gets a
// watcher the first time any key registers a dependency on it, and the
// watcher is retained (not torn down) when the last dependent is removed,
// since later keys may register against the same path again.
type watcherRegistry struct {
	engine   *Engine
	active   map[string]*argus.Watcher
	pollEvery time.Duration
}

func newWatcherRegistry(e *Engine) *watcherRegistry {
	return &watcherRegistry{
		engine:    e,
		active:    make(map[string]*argus.Watcher),
		pollEvery: defaultWatcherPollInterval,
	}
}

// registerWatchers opens a watcher for sourceFile and every entry in deps
// that isn't already watched, and records effectiveKey as a dependent of
// each. Called outside the engine's critical section; it
// takes the lock itself only for the brief dependency-graph update.
func (w *watcherRegistry) registerWatchers(effectiveKey, sourceFile string, deps []string) {
	paths := make([]string, 0, len(deps)+1)
	if sourceFile != "" {
		paths = append(paths, sourceFile)
	}
	paths = append(paths, deps...)

	for _, p := range paths {
		w.ensureWatcher(p)

		w.engine.mu.Lock()
		w.engine.deps.add(p, effectiveKey)
		w.engine.mu.Unlock()
	}
}

// ensureWatcher opens an argus watcher for path if one isn't already
// running. Registration failures are logged and tolerated:
// the entry stays cached and falls back to TTL/stat-based freshness only.
func (w *watcherRegistry) ensureWatcher(path string) {
	w.engine.mu.Lock()
	_, exists := w.active[path]
	w.engine.mu.Unlock()
	if exists {
		return
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(path, func(map[string]interface{}) {
		w.onPathModified(path)
	}, argus.Config{PollInterval: w.pollEvery})
	if err != nil {
		w.engine.cfg.Logger.Warn("dependency watcher registration failed",
			"path", path, "error", err.Error())
		return
	}

	// UniversalConfigWatcherWithConfig already starts the watcher; calling
	// Start again on a running watcher returns ARGUS_WATCHER_BUSY, so only
	// start it explicitly if construction didn't already do so.
	if !watcher.IsRunning() {
		if err := watcher.Start(); err != nil {
			w.engine.cfg.Logger.Warn("dependency watcher start failed",
				"path", path, "error", err.Error())
			return
		}
	}

	w.engine.mu.Lock()
	w.active[path] = watcher
	w.engine.mu.Unlock()
}

// onPathModified is the argus callback: it acquires the engine mutex (the
// same mutex user-visible operations use) so watcher-driven deletes are
// linearized with them, deletes every dependent entry bypassing access
// control, and clears the dependent set for path. The watcher itself is
// not closed; it keeps running so future registrations against the same
// path are observed.
func (w *watcherRegistry) onPathModified(path string) {
	e := w.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, key := range e.deps.dependents(path) {
		e.removeEntryLocked(key, evictionReasonDependencyChanged)
	}
	e.deps.clearPath(path)
}

// stop closes path's watcher if one is active, and drops its dependent
// set. Idempotent.
func (w *watcherRegistry) stop(path string) bool {
	e := w.engine
	e.mu.Lock()
	watcher, ok := w.active[path]
	if ok {
		delete(w.active, path)
		e.deps.clearPath(path)
	}
	e.mu.Unlock()

	if !ok {
		return false
	}
	_ = watcher.Stop()
	return true
}

// stopAll closes every active watcher, used by Destroy.
func (w *watcherRegistry) stopAll() {
	e := w.engine
	e.mu.Lock()
	watchers := make([]*argus.Watcher, 0, len(w.active))
	for _, watcher := range w.active {
		watchers = append(watchers, watcher)
	}
	w.active = make(map[string]*argus.Watcher)
	e.mu.Unlock()

	for _, watcher := range watchers {
		_ = watcher.Stop()
	}
}
