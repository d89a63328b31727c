// clock.go: millisecond time source for the engine.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"github.com/agilira/go-timecache"
)

// Clock provides the current time in milliseconds since epoch. All engine
// timestamps (created, lastAccessed, fileTimestamp snapshots, stats ticks)
// flow through a Clock so tests can inject a fake one instead of sleeping.
type Clock interface {
	// NowMillis returns the current time in milliseconds since epoch.
	NowMillis() int64
}

// systemClock is the default Clock, backed by go-timecache's cached time
// source to avoid a syscall on every operation.
type systemClock struct{}

// NewSystemClock returns the default production Clock.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) NowMillis() int64 {
	return timecache.CachedTimeNano() / int64(1_000_000)
}

// FakeClock is a manually-advanced Clock for deterministic tests.
type FakeClock struct {
	millis int64
}

// NewFakeClock returns a FakeClock starting at the given millisecond value.
func NewFakeClock(startMillis int64) *FakeClock {
	return &FakeClock{millis: startMillis}
}

func (f *FakeClock) NowMillis() int64 {
	return f.millis
}

// Advance moves the fake clock forward by the given number of milliseconds.
func (f *FakeClock) Advance(deltaMillis int64) {
	f.millis += deltaMillis
}

// Set pins the fake clock to an absolute millisecond value.
func (f *FakeClock) Set(millis int64) {
	f.millis = millis
}
