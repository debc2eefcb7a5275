// Package aicache memoizes generation results by a deterministic fingerprint
// of the operation and its arguments, with time-based expiry. The cache lives
// for the process lifetime and is injected into the orchestration facade, so
// tests get isolation from fresh instances.
package aicache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is an in-memory TTL cache keyed by fingerprint. The entry map is
// guarded by a mutex, but compute functions run outside the lock: two
// concurrent callers missing on the same key may both compute and the last
// write wins. That costs a redundant provider call, never corrupted data.
// Entry count is unbounded; Len exposes growth for monitoring.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock creates a cache with an injectable clock for tests.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     now,
	}
}

// GetOrCompute returns the cached value for key when one exists and is
// younger than ttl. Otherwise it invokes compute, stores a successful result
// with the current timestamp, and returns it. Expired entries are deleted at
// lookup time; failed computes are not stored.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, compute func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.now().Sub(e.storedAt) < ttl {
			c.mu.Unlock()
			return e.value, nil
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now()}
	c.mu.Unlock()
	return value, nil
}

// Len returns the current number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fingerprint builds a deterministic cache key from an operation identity and
// its ordered argument values. Distinct operations are assumed not to collide;
// sha256 makes accidental collisions across argument sets negligible without
// claiming cryptographic guarantees for the scheme as a whole.
func Fingerprint(op string, args ...string) string {
	h := sha256.New()
	h.Write([]byte(op))
	for _, arg := range args {
		h.Write([]byte{0x1f})
		h.Write([]byte(arg))
	}
	return op + ":" + hex.EncodeToString(h.Sum(nil))
}
