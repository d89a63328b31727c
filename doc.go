// Package cache implements sentinelcache: an in-process key/value cache with
// bounded capacity, LRU eviction, TTL expiration, content-and-dependency
// invalidation, opportunistic encryption of sensitive values, access control,
// single-flight loading with negative caching, and a memory-pressure-driven
// garbage collector.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

// Version of sentinelcache.
const Version = "v0.1.0-dev"
