// version.go: versioned-key encoding and latest-version resolution.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"sort"
	"strconv"
)

// resolveVersion picks the version tag to use for a set() call. If
// version is non-empty it is used verbatim; otherwise the engine derives
// one from the current millisecond timestamp, matching the decimal-string
// tag set() derives when no explicit version is supplied.
func resolveVersion(clock Clock, version string) string {
	if version != "" {
		return version
	}
	return strconv.FormatInt(clock.NowMillis(), 10)
}

// latestVersion scans entries for the one with the greatest created
// timestamp among effective keys sharing base. Ties (two versions set
// within the same clock millisecond) break on the effective key string,
// so the result is deterministic rather than depending on map iteration
// order. Returns ("", nil, false) if none exist.
func latestVersion(entries map[string]*entry, base string) (effKey string, e *entry, ok bool) {
	prefix := base + "@"
	var bestKey string
	var best *entry

	for k, v := range entries {
		if len(k) <= len(prefix) || k[:len(prefix)] != prefix {
			continue
		}
		if best == nil || v.created > best.created || (v.created == best.created && k > bestKey) {
			bestKey, best = k, v
		}
	}
	if best == nil {
		return "", nil, false
	}
	return bestKey, best, true
}

// oldVersionsToRemove returns the effective keys sharing base key that
// should be dropped by old-version cleanup, retaining the two most
// recent (sorted by created, not by string order, since lexicographic
// ordering of zero-padded-free decimal timestamps is not length-safe).
func oldVersionsToRemove(entries map[string]*entry, base string) []string {
	prefix := base + "@"
	type cand struct {
		key     string
		created int64
	}
	var cands []cand
	for k, v := range entries {
		if len(k) <= len(prefix) || k[:len(prefix)] != prefix {
			continue
		}
		cands = append(cands, cand{k, v.created})
	}
	if len(cands) <= 2 {
		return nil
	}

	sort.Slice(cands, func(i, j int) bool { return cands[i].created < cands[j].created })

	toRemove := make([]string, 0, len(cands)-2)
	for _, c := range cands[:len(cands)-2] {
		toRemove = append(toRemove, c.key)
	}
	return toRemove
}
