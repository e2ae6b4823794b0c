package query

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds a Cache created with a non-positive size.
const DefaultCacheSize = 256

// Cache keeps recently compiled queries so repeated expressions are parsed
// once. It is safe for concurrent use.
type Cache struct {
	queries *lru.Cache[string, *Query]
}

// NewCache creates a cache holding at most size compiled queries.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	c, _ := lru.New[string, *Query](size)
	return &Cache{queries: c}
}

// Compile returns the cached query for path, compiling it on a miss.
// Invalid expressions are not cached.
func (c *Cache) Compile(path string) (*Query, error) {
	if q, ok := c.queries.Get(path); ok {
		return q, nil
	}
	q, err := Compile(path)
	if err != nil {
		return nil, err
	}
	c.queries.Add(path, q)
	return q, nil
}

// Len returns the number of cached queries.
func (c *Cache) Len() int { return c.queries.Len() }
