// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetWithProtectionCachesLoadedValue(t *testing.T) {
	e, _ := newTestEngine(t, Config{MaxEntries: 10, MaxMemory: 1024 * 1024})

	var calls int64
	loader := func() (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		return "loaded", nil
	}

	value, found, err := e.GetWithProtection("k", loader)
	if err != nil || !found || value != "loaded" {
		t.Fatalf("unexpected result: value=%v found=%v err=%v", value, found, err)
	}

	value, found, err = e.GetWithProtection("k", loader)
	if err != nil || !found || value != "loaded" {
		t.Fatalf("unexpected result on second call: value=%v found=%v err=%v", value, found, err)
	}
	if atomic.LoadInt64(&calls) != 1 {
		t.Errorf("expected loader invoked once (cache hit thereafter), got %d", calls)
	}
}

func TestGetWithProtectionPropagatesLoaderError(t *testing.T) {
	e, _ := newTestEngine(t, Config{MaxEntries: 10, MaxMemory: 1024 * 1024})

	loadErr := errors.New("backend unavailable")
	loader := func() (interface{}, error) { return nil, loadErr }

	_, found, err := e.GetWithProtection("k", loader)
	if found {
		t.Error("expected found=false on loader error")
	}
	if err == nil {
		t.Fatal("expected the loader error to propagate")
	}
}

func TestGetWithProtectionRecoversLoaderPanic(t *testing.T) {
	e, _ := newTestEngine(t, Config{MaxEntries: 10, MaxMemory: 1024 * 1024})

	loader := func() (interface{}, error) {
		panic("loader exploded")
	}

	_, found, err := e.GetWithProtection("k", loader)
	if found {
		t.Error("expected found=false after a recovered panic")
	}
	if err == nil {
		t.Fatal("expected a panic-recovered error")
	}
	if GetErrorCode(err) != ErrCodePanicRecovered {
		t.Errorf("expected panic-recovered error code, got %q", GetErrorCode(err))
	}
}

func TestGetWithProtectionRejectsEmptyKeyOrNilLoader(t *testing.T) {
	e, _ := newTestEngine(t, Config{MaxEntries: 10, MaxMemory: 1024 * 1024})

	if _, _, err := e.GetWithProtection("", func() (interface{}, error) { return 1, nil }); err == nil {
		t.Error("expected an error for an empty key")
	}
	if _, _, err := e.GetWithProtection("k", nil); err == nil {
		t.Error("expected an error for a nil loader")
	}
}

func TestGetWithProtectionReturnsCachedValueWithoutLoading(t *testing.T) {
	e, _ := newTestEngine(t, Config{MaxEntries: 10, MaxMemory: 1024 * 1024})
	must(t, e.Set("k", "already-there", 0, SetOptions{}))

	var calls int64
	loader := func() (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		return "loaded", nil
	}

	value, found, err := e.GetWithProtection("k", loader)
	if err != nil || !found || value != "already-there" {
		t.Fatalf("expected the pre-existing value, got value=%v found=%v err=%v", value, found, err)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Errorf("expected the loader not to run when the cache already has a value, got %d calls", calls)
	}
}

func TestNegativeHitExpiresAfterTTL(t *testing.T) {
	e, clock := newTestEngine(t, Config{MaxEntries: 10, MaxMemory: 1024 * 1024, NegativeCacheTTL: time.Second})

	e.mu.Lock()
	e.negative["k"] = clock.NowMillis() + 1000
	e.mu.Unlock()

	if !e.negativeHit("k") {
		t.Error("expected an unexpired negative entry to hit")
	}

	clock.Advance(2000)
	if e.negativeHit("k") {
		t.Error("expected the negative entry to have expired")
	}
}
