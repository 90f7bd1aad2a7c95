package reference

import (
	"image"
	"sync"
)

// Resolver looks up the reference image for an icon name.
type Resolver interface {
	Resolve(name string) (*image.NRGBA, error)
}

// Cache is a concurrency-safe reference image cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a new reference cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches the reference for name. It returns (nil, nil)
// when no reference exists; decode failures are cached like successes.
func (c *Cache) Resolve(name string) (*image.NRGBA, error) {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil, nil
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := Load(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, err
}
