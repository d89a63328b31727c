// entry.go: the stored record shape.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import "container/list"

// entry is one cached value plus the bookkeeping the engine needs to
// enforce TTL, dependency, and encryption semantics.
type entry struct {
	value interface{} // plaintext, or a *cipherRecord when encrypted
	size  int64        // estimated byte size of the stored (possibly encrypted) form

	created      int64 // ms since epoch at insertion
	lastAccessed int64 // ms since epoch at last successful get

	ttlSeconds int64 // 0 means "use no TTL" (already resolved from default)
	encrypted  bool

	version string // caller-supplied or engine-derived version tag, "" if not version-aware
	hash    string // short content fingerprint, optional

	dependencies []string // paths whose mtime invalidates this entry
	sourceFile   string   // primary producing file, "" if none
	fileTimestamp int64   // mtime snapshot of sourceFile at insertion, ms

	accessCount int64 // hits against this entry, used by smart GC weighting

	elem *list.Element // this entry's node in the engine's LRU list
}

// effectiveKey splits an effective key into its base key and version tag.
// Non-versioned keys and version-aware keys with no "@" both report an
// empty version.
func effectiveKey(key string) (base string, version string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '@' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

// makeEffectiveKey joins a base key and version tag the way set() does.
func makeEffectiveKey(base, version string) string {
	if version == "" {
		return base
	}
	return base + "@" + version
}

// expiresAt returns the millisecond timestamp this entry's TTL elapses at,
// or 0 if it never expires.
func (e *entry) expiresAt() int64 {
	if e.ttlSeconds <= 0 {
		return 0
	}
	return e.created + e.ttlSeconds*1000
}

func (e *entry) expired(now int64) bool {
	exp := e.expiresAt()
	return exp != 0 && now > exp
}
