// Package cache provides the in-memory TTL cache shared by the article proxy,
// the assistant pipeline and the session table.
package cache

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultMaxAge applies to article and search results.
	DefaultMaxAge = 5 * time.Minute
	// SessionMaxAge applies to user and session data.
	SessionMaxAge = 30 * time.Minute
)

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Stats holds per-instance counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

// Cache maps an opaque string key to a value and the time it was stored.
// Entries expire lazily: an entry older than maxAge is removed by the Get that finds it.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	name    string
	maxAge  time.Duration
	now     func() time.Time

	hits, misses, evictions int64
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func New[T any](name string, maxAge time.Duration, opts ...Option) *Cache[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	return &Cache[T]{
		entries: make(map[string]entry[T]),
		name:    name,
		maxAge:  maxAge,
		now:     o.now,
	}
}

func (c *Cache[T]) Name() string {
	return c.name
}

func (c *Cache[T]) MaxAge() time.Duration {
	return c.maxAge
}

// Set stores value under key, replacing any previous entry.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	c.entries[key] = entry[T]{value: value, storedAt: c.now()}
	c.mu.Unlock()

	slog.Debug("Cache set", "cache", c.name, "key", key)
}

// Get returns the value stored under key unless it is missing or older than maxAge.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		recordRequest(c.name, resultMiss)
		return zero, false
	}

	if c.now().Sub(e.storedAt) > c.maxAge {
		delete(c.entries, key)
		c.misses++
		c.evictions++
		recordRequest(c.name, resultExpired)
		slog.Debug("Cache entry expired", "cache", c.name, "key", key)
		return zero, false
	}

	c.hits++
	recordRequest(c.name, resultHit)
	return e.value, true
}

// Touch restarts the age of the entry under key. It reports false, and stores
// nothing, when the key is absent or already expired.
func (c *Cache[T]) Touch(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	now := c.now()
	if now.Sub(e.storedAt) > c.maxAge {
		delete(c.entries, key)
		c.evictions++
		return false
	}
	e.storedAt = now
	c.entries[key] = e
	return true
}

// Delete removes key; it is a no-op when the key is absent.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	c.mu.Unlock()
}

// Len counts stored entries, including expired ones not yet read.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.entries),
	}
}
