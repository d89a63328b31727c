// loading.go: single-flight loading with negative caching.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

// GetWithProtection resolves key from the cache, or from loader on a miss,
// coalescing concurrent loader calls for the same key via a singleflight
// group and short-circuiting repeated misses via a negative cache.
//
// A loader returning (Absent, nil) is a confirmed "no value" and
// is negative-cached for NegativeCacheTTL; a loader returning an error is
// negative-cached for a short fixed window and the error is propagated to
// every coalesced caller.
func (e *Engine) GetWithProtection(key string, loader LoaderFunc) (interface{}, bool, error) {
	if key == "" {
		return nil, false, NewErrInvalidInput("key must not be empty")
	}
	if loader == nil {
		return nil, false, NewErrInvalidInput("loader must not be nil")
	}

	if value, found, err := e.Get(key, GetOptions{}); err != nil || found {
		return value, found, err
	}

	if e.negativeHit(key) {
		return nil, false, nil
	}

	result, err, _ := e.inflight.Do(key, func() (interface{}, error) {
		return e.loadOnce(key, loader)
	})
	if err != nil {
		return nil, false, err
	}
	if isAbsent(result) {
		return nil, false, nil
	}
	return result, true, nil
}

// negativeHit reports whether key has an unexpired negative-cache entry.
func (e *Engine) negativeHit(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	expiry, ok := e.negative[key]
	if !ok {
		return false
	}
	if e.clock.NowMillis() > expiry {
		delete(e.negative, key)
		return false
	}
	return true
}

// loadOnce runs inside the singleflight group, so at most one
// goroutine executes it per key at a time. It double-checks the cache
// (another caller may have populated it while this call waited to be
// scheduled), then runs loader with panic recovery, inserting the result
// via the internal fast-path set on success or the negative cache on
// absent/error.
func (e *Engine) loadOnce(key string, loader LoaderFunc) (result interface{}, err error) {
	if value, found, getErr := e.Get(key, GetOptions{}); getErr == nil && found {
		return value, nil
	}

	loaded, loadErr := e.runLoader(key, loader)

	e.mu.Lock()
	defer e.mu.Unlock()

	if loadErr != nil {
		e.negative[key] = e.clock.NowMillis() + negativeCacheErrorTTLMs
		return nil, loadErr
	}

	if isAbsent(loaded) {
		ttlMs := int64(e.cfg.NegativeCacheTTL / 1_000_000)
		if ttlMs <= 0 {
			ttlMs = int64(DefaultNegativeCacheTTL / 1_000_000)
		}
		e.negative[key] = e.clock.NowMillis() + ttlMs
		return Absent, nil
	}

	if err := e.setLocked(key, loaded, 0, SetOptions{}); err != nil {
		return nil, err
	}
	return loaded, nil
}

// runLoader executes loader outside the engine mutex (so other callers'
// unrelated operations are not blocked for the duration of the load),
// recovering any panic into a typed error.
func (e *Engine) runLoader(key string, loader LoaderFunc) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewErrPanicRecovered("GetWithProtection:"+key, r)
		}
	}()
	return loader()
}

// negativeCacheErrorTTLMs is the fixed, short negative-cache window used
// when a loader returns an error (as opposed to a confirmed absent
// value, which uses the configurable NegativeCacheTTL).
const negativeCacheErrorTTLMs = 60_000
