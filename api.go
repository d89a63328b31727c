// api.go: request/response shapes for the typed engine API.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

// absentType is the concrete type behind Absent, distinct from any legal
// cached value including nil.
type absentType struct{}

// Absent is the sentinel a LoaderFunc returns to mean "no value", as
// distinct from a legitimate nil value.
var Absent = &absentType{}

func isAbsent(v interface{}) bool {
	_, ok := v.(*absentType)
	return ok
}

// LoaderFunc produces a value for GetWithProtection on a cache miss. It
// returns (Absent, nil) to mean "confirmed no value" (eligible for
// negative caching), or a non-nil error to mean "load failed".
type LoaderFunc func() (interface{}, error)

// SetOptions carries the optional, named parameters to Set.
type SetOptions struct {
	// Version, if non-empty, is used verbatim as the version tag in
	// version-aware mode. If empty, the engine derives one from the
	// current millisecond timestamp.
	Version string

	// Dependencies are paths whose modification invalidates this entry.
	Dependencies []string

	// SourceFile is the primary producing file for this entry; its mtime
	// is snapshotted at insertion and re-checked on every get.
	SourceFile string
}

// GetOptions carries the optional, named parameters to Get and GetMany.
type GetOptions struct {
	// Version, if non-empty, selects a specific effective key instead of
	// latest-version resolution.
	Version string

	// ValidateDependencies controls whether non-empty entry.dependencies
	// are stat-checked. Defaults to true in version-aware mode if unset;
	// callers that want to skip the check must set it explicitly via
	// WithValidateDependencies(false).
	ValidateDependencies *bool
}

// WithValidateDependencies returns GetOptions with ValidateDependencies
// pinned to v, leaving other fields at zero value.
func WithValidateDependencies(v bool) GetOptions {
	return GetOptions{ValidateDependencies: &v}
}

func (o GetOptions) validateDependencies(versionAware bool) bool {
	if o.ValidateDependencies != nil {
		return *o.ValidateDependencies
	}
	return versionAware
}

// SetItem is one entry of a SetMany batch.
type SetItem struct {
	Key     string
	Value   interface{}
	TTL     int64 // seconds, 0 means "use configured default"
	Options SetOptions
}

// SetManyResult is the outcome of a SetMany batch.
type SetManyResult struct {
	Success []string
	Failed  []SetFailure
}

// SetFailure names a SetMany item that could not be stored.
type SetFailure struct {
	Key    string
	Reason string
}

// GetManyResult is the outcome of a GetMany batch.
type GetManyResult struct {
	Found   []KeyValue
	Missing []string
}

// KeyValue pairs a key with its resolved value, used by GetMany.
type KeyValue struct {
	Key   string
	Value interface{}
}

// DeleteManyResult is the outcome of a DeleteMany batch.
type DeleteManyResult struct {
	Success []string
	Failed  []string
}

// GCResult reports the outcome of a single GC cycle, whether scheduled by
// the background sweeper or triggered by ForceGC.
type GCResult struct {
	FreedBytes     int64
	DurationNs     int64
	EntriesRemoved int
}

// evictionReason distinguishes why an entry left the map, for metrics and
// for OnEvict vs OnExpire callback selection.
type evictionReason int

const (
	evictionReasonExplicit evictionReason = iota
	evictionReasonCapacity
	evictionReasonExpired
	evictionReasonDependencyChanged
	evictionReasonGC
	evictionReasonVersionCleanup
)
