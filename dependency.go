// dependency.go: reverse index from watched paths to dependent effective keys.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

// dependencyGraph maps a watched file path to the set of effective keys
// that depend on it. Protected by the engine mutex; never accessed
// without it held, including from watcher callbacks.
type dependencyGraph struct {
	byPath map[string]map[string]struct{}
}

func newDependencyGraph() *dependencyGraph {
	return &dependencyGraph{byPath: make(map[string]map[string]struct{})}
}

// add records that effectiveKey depends on path.
func (g *dependencyGraph) add(path, effectiveKey string) {
	set, ok := g.byPath[path]
	if !ok {
		set = make(map[string]struct{})
		g.byPath[path] = set
	}
	set[effectiveKey] = struct{}{}
}

// remove drops effectiveKey's dependency on path, if present.
func (g *dependencyGraph) remove(path, effectiveKey string) {
	set, ok := g.byPath[path]
	if !ok {
		return
	}
	delete(set, effectiveKey)
	if len(set) == 0 {
		delete(g.byPath, path)
	}
}

// removeKeyEverywhere drops effectiveKey from every path's dependent set,
// used when an entry is deleted independently of a watcher event.
func (g *dependencyGraph) removeKeyEverywhere(effectiveKey string) {
	for path, set := range g.byPath {
		delete(set, effectiveKey)
		if len(set) == 0 {
			delete(g.byPath, path)
		}
	}
}

// dependents returns the effective keys registered against path, without
// clearing them.
func (g *dependencyGraph) dependents(path string) []string {
	set, ok := g.byPath[path]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys
}

// clearPath drops the dependent-set for path entirely. The platform watcher
// itself is tracked separately (see watcher.go) and is retained across this
// call, since later keys may register against the same path again.
func (g *dependencyGraph) clearPath(path string) {
	delete(g.byPath, path)
}
