package regrp

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of (pattern, group) results kept by a Cache
// created with a non-positive size.
const DefaultCacheSize = 1024

type cacheKey struct {
	source string
	group  int
}

type cacheEntry struct {
	prefix, target, suffix string
	err                    error
}

// Cache memoizes Split results. Splits are a pure function of their inputs,
// so failures are cached as well. A Cache is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[cacheKey, cacheEntry]
}

// NewCache creates a Cache holding at most size results.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[cacheKey, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create split cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Split behaves like the package-level Split.
func (c *Cache) Split(source string, group int) (prefix, target, suffix string, err error) {
	key := cacheKey{source: source, group: group}
	if e, ok := c.entries.Get(key); ok {
		return e.prefix, e.target, e.suffix, e.err
	}

	prefix, target, suffix, err = Split(source, group)
	c.entries.Add(key, cacheEntry{prefix: prefix, target: target, suffix: suffix, err: err})
	return prefix, target, suffix, err
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.entries.Len()
}
