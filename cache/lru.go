// Package cache implements a bounded, O(1) LRU cache used to hold hot
// term postings and fuzzy-expansion results.
//
// Rather than hand-roll a map+doubly-linked-list structure, this wraps
// github.com/hashicorp/golang-lru/v2 (a real dependency of
// sushant-115/gojodb, pulled in transitively via hashicorp/raft) and
// layers {size, hits, misses, evictions} instrumentation on top, via
// the library's eviction callback.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/21nOrg/searchfn/ftserr"
)

// Stats reports hit/miss/eviction counters.
type Stats struct {
	Size      int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// LRU is a generic, bounded, read-through-capable cache. The
// underlying hashicorp/golang-lru Cache already synchronizes its own
// operations, so the instrumentation here uses plain atomics rather
// than an outer mutex — taking one would deadlock against the
// library's own eviction callback, which fires synchronously from
// inside Add.
type LRU[K comparable, V any] struct {
	inner *lru.Cache[K, V]

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New builds an LRU with the given positive capacity. A non-positive
// capacity is a construction-time InputRejected error.
func New[K comparable, V any](capacity int) (*LRU[K, V], error) {
	if capacity <= 0 {
		return nil, ftserr.New(ftserr.InputRejected, "cache.New: capacity must be > 0")
	}
	c := &LRU[K, V]{}
	inner, err := lru.NewWithEvict[K, V](capacity, func(_ K, _ V) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, ftserr.Wrap(ftserr.InputRejected, "cache.New", err)
	}
	c.inner = inner
	return c, nil
}

// Get returns the cached value for key and whether it was present,
// moving key to the front on a hit.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	v, ok := c.inner.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set inserts or overwrites key's value, moving it to the front. If
// inserting past capacity, the least-recently-used entry is evicted
// (tracked via the eviction callback installed at construction).
func (c *LRU[K, V]) Set(key K, value V) {
	c.inner.Add(key, value)
}

// Has reports whether key is present without affecting recency.
func (c *LRU[K, V]) Has(key K) bool {
	return c.inner.Contains(key)
}

// Delete removes key if present.
func (c *LRU[K, V]) Delete(key K) {
	c.inner.Remove(key)
}

// Clear empties the cache and resets all statistics.
func (c *LRU[K, V]) Clear() {
	c.inner.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// StatsSnapshot returns the current counters.
func (c *LRU[K, V]) StatsSnapshot() Stats {
	return Stats{
		Size:      c.inner.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
