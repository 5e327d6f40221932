package main

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// uuidCache is a least-recently-used cache of UUID lookups, kept here
// at the CLI layer rather than inside lib/bcachefsfs: the lookup
// subsystem itself never caches unpacked inodes, so any caching of a
// find-blockdev result is this binary's business, not the library's.
type uuidCache[K comparable, V any] struct {
	initOnce sync.Once
	inner    *lru.ARCCache
	size     int
}

func newUUIDCache[K comparable, V any](size int) *uuidCache[K, V] {
	return &uuidCache[K, V]{size: size}
}

func (c *uuidCache[K, V]) init() {
	c.initOnce.Do(func() {
		if c.size <= 0 {
			c.size = 128
		}
		c.inner, _ = lru.NewARC(c.size)
	})
}

func (c *uuidCache[K, V]) Add(key K, value V) {
	c.init()
	c.inner.Add(key, value)
}

func (c *uuidCache[K, V]) Get(key K) (value V, ok bool) {
	c.init()
	raw, ok := c.inner.Get(key)
	if ok {
		value = raw.(V)
	}
	return value, ok
}
