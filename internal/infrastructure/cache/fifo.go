// Package cache provides cache implementations for the application layer.
package cache

import (
	"container/list"
	"sync"
)

// FIFO is a thread-safe bounded cache that evicts in insertion order.
// It implements port.Cache[K, V].
//
// Reads never refresh an entry's position: the entry inserted first is
// always the next one evicted, however often it is accessed.
type FIFO[K comparable, V any] struct {
	capacity int
	mu       sync.RWMutex
	items    map[K]*list.Element
	order    *list.List // Front = oldest, Back = newest
}

// entry holds a key-value pair in the FIFO cache.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// NewFIFO creates a new FIFO cache with the given capacity.
// Capacity must be positive; if zero or negative, a capacity of 1 is used.
func NewFIFO[K comparable, V any](capacity int) *FIFO[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &FIFO[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Capacity returns the maximum number of resident entries.
func (c *FIFO[K, V]) Capacity() int {
	return c.capacity
}

// Get retrieves a value by key without touching its eviction position.
func (c *FIFO[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if elem, ok := c.items[key]; ok {
		return elem.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is resident.
func (c *FIFO[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[key]
	return ok
}

// Set adds or replaces a value.
// Replacing a resident key keeps its position and evicts nothing.
// Inserting a new key first evicts from the head until there is room,
// and returns the evicted keys oldest first.
func (c *FIFO[K, V]) Set(key K, value V) []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*entry[K, V]).value = value
		return nil
	}

	evicted := c.evictIfFull()
	c.items[key] = c.order.PushBack(&entry[K, V]{key: key, value: value})
	return evicted
}

// evictIfFull removes head entries while the cache is at or over capacity.
// Must be called with c.mu held for write.
func (c *FIFO[K, V]) evictIfFull() []K {
	var evicted []K
	for c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		key := oldest.Value.(*entry[K, V]).key
		c.order.Remove(oldest)
		delete(c.items, key)
		evicted = append(evicted, key)
	}
	return evicted
}

// Len returns the number of items currently in the cache.
func (c *FIFO[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Keys returns resident keys oldest first.
func (c *FIFO[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]K, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*entry[K, V]).key)
	}
	return keys
}
