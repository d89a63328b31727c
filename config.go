// config.go: configuration for sentinelcache
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import "time"

const (
	// DefaultMaxEntries bounds the number of distinct effective keys the
	// cache will hold when MaxEntries is unset.
	DefaultMaxEntries = 10_000

	// DefaultMaxMemory bounds total estimated byte usage when MaxMemory is
	// unset. 64 MiB.
	DefaultMaxMemory int64 = 64 * 1024 * 1024

	// DefaultCheckInterval is how often the background GC goroutine wakes
	// to sweep expired entries and reassess memory pressure.
	DefaultCheckInterval = 30 * time.Second

	// DefaultStatsInterval is how often the background stats goroutine
	// recalibrates memory usage from a fresh sum over all entries.
	DefaultStatsInterval = 10 * time.Second

	// DefaultNegativeCacheTTL is how long a confirmed-absent load result is
	// cached to suppress repeated calls to a loader that keeps reporting
	// the key missing.
	DefaultNegativeCacheTTL = 300 * time.Second
)

// Config holds configuration parameters for the cache engine.
type Config struct {
	// MaxEntries is the maximum number of effective keys the cache can
	// hold at once (in version-aware mode, each stored version of a key
	// counts as one entry). Must be > 0. Default: DefaultMaxEntries.
	MaxEntries int

	// MaxMemory is the maximum total estimated byte size of all cached
	// values. Must be > 0. Default: DefaultMaxMemory.
	MaxMemory int64

	// DefaultTTL applies to entries set without an explicit TTL. If 0,
	// such entries never expire.
	DefaultTTL time.Duration

	// CheckInterval is how often the background GC goroutine runs.
	// Default: DefaultCheckInterval.
	CheckInterval time.Duration

	// StatsInterval is how often memory usage is recalibrated from a fresh
	// sum over all entries. Default: DefaultStatsInterval.
	StatsInterval time.Duration

	// NegativeCacheTTL is how long a confirmed-absent GetWithProtection
	// load result is cached. Loader errors are cached for a fixed, shorter
	// window instead. Default (also used when <= 0):
	// DefaultNegativeCacheTTL.
	NegativeCacheTTL time.Duration

	// PreciseMemoryCalculation forces the precise, recursive size
	// estimator for every write. When false, sizing is adaptive: the
	// precise walk for values whose fast estimate is at most 10 KiB, the
	// fast flat-encoding estimate above that. Precise mode costs more
	// CPU per write but tracks real heap usage more closely under
	// non-uniform value shapes.
	PreciseMemoryCalculation bool

	// VersionAwareMode enables versioned-key storage ("key@version") and
	// latest-version resolution. When false, Set/Get operate on bare keys
	// only; the Version fields of SetOptions and GetOptions are ignored and
	// no error is reported for them.
	VersionAwareMode bool

	// EncryptionEnabled turns on opportunistic AES-256-GCM encryption for
	// values whose key, or whose textual projection, contains one of the
	// built-in sensitivity patterns or a SensitivePattern.
	EncryptionEnabled bool

	// EncryptionKey is the raw 32-byte AES-256 key used when
	// EncryptionEnabled is true. Required (and validated) only in that
	// case.
	EncryptionKey []byte

	// SensitivePatterns are extra patterns, matched case-insensitively as
	// plain substrings of the key and of the value's textual projection,
	// that decide whether a value is encrypted at rest. Validate also
	// rejects entries that do not compile as regexps. Ignored unless
	// EncryptionEnabled.
	SensitivePatterns []string

	// AccessControl, if non-nil, is consulted on every operation to allow
	// or deny it. If nil, all operations are allowed.
	AccessControl *AccessControlConfig

	// Logger is used for debugging and monitoring. If nil, NoOpLogger is
	// used. Default: NoOpLogger.
	Logger Logger

	// Clock provides current time for TTL and staleness calculations. If
	// nil, NewSystemClock() is used.
	Clock Clock

	// MetricsCollector is used for collecting operation metrics (hits,
	// misses, evictions, GC cycles). If nil, NoOpMetricsCollector is used.
	MetricsCollector MetricsCollector

	// OnEvict is called when an entry is evicted by the LRU or GC. This
	// callback must be fast and non-blocking.
	OnEvict func(key string, value interface{})

	// OnExpire is called when an entry is removed as expired (TTL elapsed)
	// or stale (source file or dependency changed). This callback must be
	// fast and non-blocking.
	OnExpire func(key string, value interface{})
}

// Validate checks configuration parameters, applies sensible defaults, and
// reports a configuration error only when a supplied value is unusable
// (for example, EncryptionEnabled with a key of the wrong length).
//
// This method is automatically called by New, so you typically don't need
// to call it manually. It is exported so callers can inspect the
// normalized configuration before constructing an engine.
//
// Default values applied:
//   - MaxEntries: DefaultMaxEntries if <= 0
//   - MaxMemory: DefaultMaxMemory if <= 0
//   - CheckInterval: DefaultCheckInterval if <= 0
//   - StatsInterval: DefaultStatsInterval if <= 0
//   - NegativeCacheTTL: DefaultNegativeCacheTTL if <= 0
//   - Logger: NoOpLogger{} if nil
//   - Clock: NewSystemClock() if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
func (c *Config) Validate() error {
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}

	if c.MaxMemory <= 0 {
		c.MaxMemory = DefaultMaxMemory
	}

	if c.CheckInterval <= 0 {
		c.CheckInterval = DefaultCheckInterval
	}

	if c.StatsInterval <= 0 {
		c.StatsInterval = DefaultStatsInterval
	}

	if c.NegativeCacheTTL <= 0 {
		c.NegativeCacheTTL = DefaultNegativeCacheTTL
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.Clock == nil {
		c.Clock = NewSystemClock()
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	if c.EncryptionEnabled && len(c.EncryptionKey) != 32 {
		return NewErrConfigurationError("EncryptionEnabled requires a 32-byte EncryptionKey")
	}

	for _, pattern := range c.SensitivePatterns {
		if _, err := compilePattern(pattern); err != nil {
			return NewErrConfigurationError("invalid SensitivePatterns entry: " + pattern)
		}
	}

	if c.AccessControl != nil {
		if err := c.AccessControl.validate(); err != nil {
			return err
		}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults and no
// encryption or access control.
func DefaultConfig() Config {
	return Config{
		MaxEntries:       DefaultMaxEntries,
		MaxMemory:        DefaultMaxMemory,
		CheckInterval:    DefaultCheckInterval,
		StatsInterval:    DefaultStatsInterval,
		NegativeCacheTTL: DefaultNegativeCacheTTL,
		Logger:           NoOpLogger{},
		Clock:            NewSystemClock(),
		MetricsCollector: NoOpMetricsCollector{},
	}
}
