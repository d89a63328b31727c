// lru.go: doubly-linked-list recency index over effective keys.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"container/list"
	"sort"
)

// lruIndex tracks recency ordering over effective keys. Head is most
// recently touched, tail is least. It does not own the entry map; callers
// pass the effective key as list.Element.Value and keep entry.elem in sync.
type lruIndex struct {
	list *list.List
}

func newLRUIndex() *lruIndex {
	return &lruIndex{list: list.New()}
}

// pushFront inserts key at the head and returns its list element.
func (l *lruIndex) pushFront(key string) *list.Element {
	return l.list.PushFront(key)
}

// moveToFront marks elem as most recently used.
func (l *lruIndex) moveToFront(elem *list.Element) {
	l.list.MoveToFront(elem)
}

// remove unlinks elem.
func (l *lruIndex) remove(elem *list.Element) {
	l.list.Remove(elem)
}

// back returns the least-recently-used element, or nil if empty.
func (l *lruIndex) back() *list.Element {
	return l.list.Back()
}

// len reports the number of tracked keys.
func (l *lruIndex) len() int {
	return l.list.Len()
}

// rebuild discards the current ordering and rebuilds it from scratch,
// ordering entries by descending lastAccessed (most recent first). This is
// the repair pass a full GC cycle runs to correct any bookkeeping drift
// between the map and the list that accumulated from partial failures
// elsewhere in the engine.
func (l *lruIndex) rebuild(entries map[string]*entry) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return entries[keys[i]].lastAccessed > entries[keys[j]].lastAccessed
	})

	l.list = list.New()
	for _, k := range keys {
		e := entries[k]
		e.elem = l.list.PushBack(k)
	}
}
