// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"sort"
	"testing"
)

func TestDependencyGraphAddAndDependents(t *testing.T) {
	g := newDependencyGraph()
	g.add("f.txt", "a")
	g.add("f.txt", "b")
	g.add("other.txt", "c")

	deps := g.dependents("f.txt")
	sort.Strings(deps)
	if len(deps) != 2 || deps[0] != "a" || deps[1] != "b" {
		t.Errorf("expected [a b], got %v", deps)
	}
	if deps := g.dependents("missing.txt"); deps != nil {
		t.Errorf("expected nil for unknown path, got %v", deps)
	}
}

func TestDependencyGraphRemove(t *testing.T) {
	g := newDependencyGraph()
	g.add("f.txt", "a")
	g.add("f.txt", "b")

	g.remove("f.txt", "a")
	deps := g.dependents("f.txt")
	if len(deps) != 1 || deps[0] != "b" {
		t.Errorf("expected [b], got %v", deps)
	}

	g.remove("f.txt", "b")
	if _, ok := g.byPath["f.txt"]; ok {
		t.Error("expected path entry to be pruned once its dependent set empties")
	}
}

func TestDependencyGraphRemoveKeyEverywhere(t *testing.T) {
	g := newDependencyGraph()
	g.add("f1.txt", "k")
	g.add("f2.txt", "k")
	g.add("f2.txt", "other")

	g.removeKeyEverywhere("k")

	if g.dependents("f1.txt") != nil {
		t.Error("expected k removed from f1.txt")
	}
	deps := g.dependents("f2.txt")
	if len(deps) != 1 || deps[0] != "other" {
		t.Errorf("expected only other left on f2.txt, got %v", deps)
	}
}

func TestDependencyGraphClearPathRetainsNothingButIsReusable(t *testing.T) {
	g := newDependencyGraph()
	g.add("f.txt", "a")
	g.clearPath("f.txt")

	if deps := g.dependents("f.txt"); deps != nil {
		t.Errorf("expected no dependents after clearPath, got %v", deps)
	}

	g.add("f.txt", "b")
	if deps := g.dependents("f.txt"); len(deps) != 1 || deps[0] != "b" {
		t.Errorf("expected path to accept new registrations after clearPath, got %v", deps)
	}
}
