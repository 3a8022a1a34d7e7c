// Package insight generates the natural-language report for a repository
// snapshot. It prefers the generative model but always degrades to a
// deterministic heuristic builder, so Generate never fails.
package insight

import (
	"container/list"
	"sync"
	"time"

	"vibecheck/internal/models"
)

// Cache defaults, overridable through the constructor.
const (
	DefaultCacheTTL  = 10 * time.Minute
	DefaultCacheSize = 50
)

// CacheKey derives the cache key for a snapshot. Changing either the full
// name or the update timestamp invalidates prior entries.
func CacheKey(snap models.RepositorySnapshot) string {
	return snap.FullName + "-" + snap.UpdatedAt
}

type cacheEntry struct {
	key      string
	insight  models.Insight
	storedAt time.Time
}

// Cache is a bounded, TTL-based insight store with explicit insertion-order
// eviction: entries expire lazily at read time, and inserting past the size
// bound evicts the oldest-inserted entry in the same critical section as the
// insert. An LRU container is deliberately not used here because promotion on
// read would break the oldest-inserted eviction contract.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	now     func() time.Time
	byKey   map[string]*list.Element
	inserts *list.List // front = oldest insertion
}

// NewCache builds a cache with the given TTL and size bound. Non-positive
// arguments fall back to the defaults.
func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &Cache{
		ttl:     ttl,
		max:     maxEntries,
		now:     time.Now,
		byKey:   make(map[string]*list.Element),
		inserts: list.New(),
	}
}

// Get returns the live entry for key, expiring it lazily if its TTL has
// elapsed.
func (c *Cache) Get(key string) (models.Insight, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byKey[key]
	if !ok {
		return models.Insight{}, false
	}
	entry := el.Value.(*cacheEntry)
	if c.now().Sub(entry.storedAt) >= c.ttl {
		c.inserts.Remove(el)
		delete(c.byKey, key)
		return models.Insight{}, false
	}
	return entry.insight, true
}

// Put stores a freshly generated insight. Re-storing an existing key counts
// as a new insertion. Eviction of the oldest insertion happens atomically
// with the insert once the size bound is exceeded.
func (c *Cache) Put(key string, ins models.Insight) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byKey[key]; ok {
		c.inserts.Remove(el)
		delete(c.byKey, key)
	}
	c.byKey[key] = c.inserts.PushBack(&cacheEntry{
		key:      key,
		insight:  ins,
		storedAt: c.now(),
	})
	for c.inserts.Len() > c.max {
		oldest := c.inserts.Front()
		c.inserts.Remove(oldest)
		delete(c.byKey, oldest.Value.(*cacheEntry).key)
	}
}

// Len reports the number of stored entries, including not-yet-expired ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inserts.Len()
}
