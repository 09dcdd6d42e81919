package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Query keys are the API paths whose results the board caches
const (
	KeyLeads          = "/api/leads"
	KeyLeadStats      = "/api/leads/stats"
	KeyDashboardStats = "/api/dashboard/stats"
)

// Fetcher loads the current server value for a key
type Fetcher func(ctx context.Context) (interface{}, error)

type entry struct {
	value interface{}
	stale bool
}

// QueryCache holds query results by key. Reads may overlap an in-flight
// mutation, so every access goes through the mutex.
type QueryCache struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	fetchers map[string]Fetcher
}

// CacheSnapshot is a saved cache value for one key
type CacheSnapshot struct {
	key     string
	value   interface{}
	present bool
}

func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries:  make(map[string]*entry),
		fetchers: make(map[string]Fetcher),
	}
}

// Register sets the fetcher Refetch uses for key
func (c *QueryCache) Register(key string, fetch Fetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchers[key] = fetch
}

func (c *QueryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *QueryCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{value: value}
}

// Update replaces the value of key with fn(current) under the lock
func (c *QueryCache) Update(key string, fn func(current interface{}) interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var current interface{}
	if e, ok := c.entries[key]; ok {
		current = e.value
	}
	c.entries[key] = &entry{value: fn(current)}
}

// Snapshot captures the value of key so it can be put back with Restore.
// Cached values are treated as immutable; writers replace them.
func (c *QueryCache) Snapshot(key string) CacheSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return CacheSnapshot{key: key}
	}
	return CacheSnapshot{key: key, value: e.value, present: true}
}

func (c *QueryCache) Restore(s CacheSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !s.present {
		delete(c.entries, s.key)
		return
	}
	c.entries[s.key] = &entry{value: s.value}
}

// Invalidate marks keys stale. Stale values stay readable until refetched.
func (c *QueryCache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			e.stale = true
		} else {
			c.entries[key] = &entry{stale: true}
		}
	}
}

func (c *QueryCache) IsStale(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return !ok || e.stale
}

// Refetch reloads keys through their fetchers. A failed key keeps its stale value.
func (c *QueryCache) Refetch(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		c.mu.RLock()
		fetch, ok := c.fetchers[key]
		c.mu.RUnlock()
		if !ok {
			errs = append(errs, fmt.Errorf("no fetcher registered for %s", key))
			continue
		}

		value, err := fetch(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("refetch %s: %w", key, err))
			continue
		}
		c.Set(key, value)
	}
	return errors.Join(errs...)
}
