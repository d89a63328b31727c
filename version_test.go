// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import "testing"

func TestResolveVersion(t *testing.T) {
	clock := NewFakeClock(12345)

	if got := resolveVersion(clock, "explicit"); got != "explicit" {
		t.Errorf("expected explicit version to pass through, got %q", got)
	}
	if got := resolveVersion(clock, ""); got != "12345" {
		t.Errorf("expected derived version from clock, got %q", got)
	}
}

func TestLatestVersion(t *testing.T) {
	entries := map[string]*entry{
		"doc@1": {created: 100},
		"doc@3": {created: 300},
		"doc@2": {created: 200},
		"other@9": {created: 900},
	}

	key, ent, ok := latestVersion(entries, "doc")
	if !ok || key != "doc@3" || ent.created != 300 {
		t.Fatalf("expected doc@3 as latest, got key=%q ok=%v", key, ok)
	}

	if _, _, ok := latestVersion(entries, "missing"); ok {
		t.Error("expected no match for an unknown base key")
	}
}

func TestOldVersionsToRemoveRetainsTwoNewest(t *testing.T) {
	entries := map[string]*entry{
		"doc@1": {created: 100},
		"doc@2": {created: 200},
		"doc@3": {created: 300},
		"doc@4": {created: 400},
	}

	toRemove := oldVersionsToRemove(entries, "doc")
	if len(toRemove) != 2 {
		t.Fatalf("expected 2 keys to remove, got %v", toRemove)
	}
	removed := map[string]bool{toRemove[0]: true, toRemove[1]: true}
	if !removed["doc@1"] || !removed["doc@2"] {
		t.Errorf("expected the two oldest versions removed, got %v", toRemove)
	}
}

func TestOldVersionsToRemoveNoopUnderTwoVersions(t *testing.T) {
	entries := map[string]*entry{
		"doc@1": {created: 100},
		"doc@2": {created: 200},
	}
	if toRemove := oldVersionsToRemove(entries, "doc"); toRemove != nil {
		t.Errorf("expected no removals with only 2 versions, got %v", toRemove)
	}
}

func TestEffectiveKeySplitAndJoin(t *testing.T) {
	base, version := effectiveKey("doc@42")
	if base != "doc" || version != "42" {
		t.Errorf("expected base=doc version=42, got base=%q version=%q", base, version)
	}

	base, version = effectiveKey("bare")
	if base != "bare" || version != "" {
		t.Errorf("expected bare key to report empty version, got base=%q version=%q", base, version)
	}

	if got := makeEffectiveKey("doc", "42"); got != "doc@42" {
		t.Errorf("expected doc@42, got %q", got)
	}
	if got := makeEffectiveKey("doc", ""); got != "doc" {
		t.Errorf("expected bare key when version is empty, got %q", got)
	}
}
