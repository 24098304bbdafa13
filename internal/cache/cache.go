package cache

import (
	"fmt"
	"math"
	"os"
	"sync/atomic"

	"github.com/maypok86/otter"
)

// DefaultMaxBytes bounds the total size of cached file contents.
const DefaultMaxBytes = 64 << 20

// ContentSource returns the full text of a file.
type ContentSource interface {
	Read(path string) (string, error)
}

// FileSource reads straight from disk. Each call opens and releases its own
// file handle.
type FileSource struct{}

// Read returns the content of path.
func (FileSource) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Cache keeps recently read file contents in memory so the pipeline's
// hydration stages do not go back to disk for a file it has just read.
type Cache struct {
	source ContentSource
	store  otter.Cache[string, string]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache wraps source with a content cache bounded to maxBytes of text.
// A non-positive maxBytes uses DefaultMaxBytes.
func NewCache(source ContentSource, maxBytes int) (*Cache, error) {
	if source == nil {
		source = FileSource{}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	store, err := otter.MustBuilder[string, string](maxBytes).
		Cost(func(key string, value string) uint32 {
			switch {
			case len(value) == 0:
				return 1
			case uint64(len(value)) > math.MaxUint32:
				return math.MaxUint32
			}
			return uint32(len(value))
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build content cache: %w", err)
	}

	return &Cache{source: source, store: store}, nil
}

// Read returns the cached content for path, reading it through on a miss.
// Files larger than the cache are returned but not retained.
func (c *Cache) Read(path string) (string, error) {
	if content, ok := c.store.Get(path); ok {
		c.hits.Add(1)
		return content, nil
	}

	c.misses.Add(1)
	content, err := c.source.Read(path)
	if err != nil {
		return "", err
	}
	c.store.Set(path, content)
	return content, nil
}

// Invalidate drops the given paths so the next Read goes to the source.
func (c *Cache) Invalidate(paths ...string) {
	for _, p := range paths {
		c.store.Delete(p)
	}
}

// Hits returns how many reads were served from memory.
func (c *Cache) Hits() int64 { return c.hits.Load() }

// Misses returns how many reads went to the underlying source.
func (c *Cache) Misses() int64 { return c.misses.Load() }

// Close releases the cache.
func (c *Cache) Close() {
	c.store.Close()
}
