// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache holds the in-process TTL+LRU cache for per-region
// filter-option payloads. Computing the complete option set for a region
// costs a full aggregation query, so the result is kept warm here and
// shared across requests. The cache is an injected component with an
// explicit lifecycle; nothing in the service reaches it through package
// state.
package cache

import (
	"sort"
	"time"

	"sync"

	"github.com/prabhakarm7/sn-graph-sub000/services/network/datatypes"
)

// Defaults, overridable through config.
const (
	DefaultMaxEntries = 100
	DefaultTTL        = 30 * time.Minute

	// evictFraction of the least-recently-accessed entries is removed
	// when a Set hits capacity.
	evictFraction = 0.25
)

// Key identifies one cached payload. Region is normalized upper-case.
type Key struct {
	Region          string
	Recommendations bool
}

type entry struct {
	payload      datatypes.FilterOptions
	createdAt    time.Time
	expiresAt    time.Time
	accessCount  int64
	lastAccessed time.Time
}

// Stats is a point-in-time snapshot of cache behavior.
type Stats struct {
	Entries     int   `json:"entries"`
	MaxEntries  int   `json:"maxEntries"`
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Evictions   int64 `json:"evictions"`
	Expirations int64 `json:"expirations"`
}

// FilterOptionCache is a TTL+LRU cache of filter-option payloads.
//
// # Description
//
// Payloads are deep-copied on the way in and out, so callers can never
// alias cached state. Entries expire at a per-entry deadline; expired
// entries are dropped lazily on Get and in bulk by the background sweep.
// When a Set would exceed capacity, the least-recently-accessed quarter
// of entries is evicted first.
//
// # Thread Safety
//
// All methods serialize on one mutex. The cache is shared by every
// request and by the worker pool.
type FilterOptionCache struct {
	mu      sync.Mutex
	entries map[Key]*entry

	maxEntries int
	defaultTTL time.Duration
	now        func() time.Time

	hits        int64
	misses      int64
	evictions   int64
	expirations int64
}

// New builds a cache with the given capacity and default TTL.
// Non-positive arguments fall back to the defaults.
func New(maxEntries int, defaultTTL time.Duration) *FilterOptionCache {
	return NewWithClock(maxEntries, defaultTTL, time.Now)
}

// NewWithClock is New with an injected time source for tests.
func NewWithClock(maxEntries int, defaultTTL time.Duration, now func() time.Time) *FilterOptionCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &FilterOptionCache{
		entries:    make(map[Key]*entry),
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
		now:        now,
	}
}

// Get returns a deep copy of the payload for key, or ok=false on a miss.
// An expired entry counts as a miss and is removed on the spot.
func (c *FilterOptionCache) Get(key Key) (datatypes.FilterOptions, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	now := c.now()
	if !now.Before(e.expiresAt) {
		delete(c.entries, key)
		c.expirations++
		c.misses++
		return nil, false
	}
	e.accessCount++
	e.lastAccessed = now
	c.hits++
	return copyOptions(e.payload), true
}

// Set stores a deep copy of payload under key with the default TTL.
func (c *FilterOptionCache) Set(key Key, payload datatypes.FilterOptions) {
	c.SetTTL(key, payload, c.defaultTTL)
}

// SetTTL stores a deep copy of payload with an explicit TTL, evicting
// least-recently-accessed entries first when at capacity.
func (c *FilterOptionCache) SetTTL(key Key, payload datatypes.FilterOptions, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}

	now := c.now()
	c.entries[key] = &entry{
		payload:      copyOptions(payload),
		createdAt:    now,
		expiresAt:    now.Add(ttl),
		lastAccessed: now,
	}
}

// evictLocked removes the least-recently-accessed quarter of entries,
// at least one. Caller holds the lock.
func (c *FilterOptionCache) evictLocked() {
	count := int(float64(len(c.entries)) * evictFraction)
	if count < 1 {
		count = 1
	}

	type aged struct {
		key  Key
		last time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, last: e.lastAccessed})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].last.Before(all[j].last) })

	for i := 0; i < count && i < len(all); i++ {
		delete(c.entries, all[i].key)
		c.evictions++
	}
}

// InvalidateRegion removes both mode entries for a region and returns
// how many were present.
func (c *FilterOptionCache) InvalidateRegion(region string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range []Key{
		{Region: region, Recommendations: false},
		{Region: region, Recommendations: true},
	} {
		if _, ok := c.entries[key]; ok {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// InvalidateAll empties the cache and returns the removed entry count.
func (c *FilterOptionCache) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.entries)
	c.entries = make(map[Key]*entry)
	return removed
}

// Sweep removes every expired entry regardless of access recency and
// returns the removed count. Called periodically by the Sweeper.
func (c *FilterOptionCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			c.expirations++
			removed++
		}
	}
	return removed
}

// Stats snapshots the cache counters.
func (c *FilterOptionCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Entries:     len(c.entries),
		MaxEntries:  c.maxEntries,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
}

func copyOptions(in datatypes.FilterOptions) datatypes.FilterOptions {
	out := make(datatypes.FilterOptions, len(in))
	for dim, opts := range in {
		copied := make([]datatypes.Option, len(opts))
		copy(copied, opts)
		out[dim] = copied
	}
	return out
}
