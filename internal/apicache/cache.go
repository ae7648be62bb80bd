package apicache

import (
	"slices"
	"sync"
)

// Entry pairs a handle with its cached API.
type Entry[T any] struct {
	Handle int
	API    T
}

// Cache maps engine handles to object APIs.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[int]T
}

// New creates an empty cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[int]T, 16),
	}
}

// Add stores api under handle. It reports false and keeps the existing
// entry if the handle is already cached.
func (c *Cache[T]) Add(handle int, api T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[handle]; exists {
		return false
	}

	c.entries[handle] = api

	return true
}

// Get returns the API cached for handle.
func (c *Cache[T]) Get(handle int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	api, ok := c.entries[handle]

	return api, ok
}

// Remove evicts handle and returns the API it held.
func (c *Cache[T]) Remove(handle int) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	api, ok := c.entries[handle]
	if ok {
		delete(c.entries, handle)
	}

	return api, ok
}

// All returns every cached entry ordered by handle.
func (c *Cache[T]) All() []Entry[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry[T], 0, len(c.entries))
	for handle, api := range c.entries {
		out = append(out, Entry[T]{Handle: handle, API: api})
	}

	slices.SortFunc(out, func(a, b Entry[T]) int { return a.Handle - b.Handle })

	return out
}

// Clear evicts every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}

// Len returns the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
