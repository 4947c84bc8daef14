// Package memory provides an in-process cache for single-instance runs.
package memory

import (
	"context"
	"fmt"
	"time"

	"go-linktrack/internal/clicks/usecase"

	"github.com/maypok86/otter"
)

// noExpiry is the lifetime given to entries stored with a zero ttl.
const noExpiry = 365 * 24 * time.Hour

var _ usecase.Cache = (*Cache)(nil)

// Cache implements usecase.Cache with a bounded otter cache.
type Cache struct {
	cache otter.CacheWithVariableTTL[string, string]
}

// NewCache creates a cache holding at most capacity entries.
func NewCache(capacity int) (*Cache, error) {
	cache, err := otter.MustBuilder[string, string](capacity).
		Cost(func(_ string, _ string) uint32 { return 1 }).
		WithVariableTTL().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build memory cache: %w", err)
	}
	return &Cache{cache: cache}, nil
}

func (c *Cache) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := c.cache.Get(key)
	return value, ok, nil
}

func (c *Cache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = noExpiry
	}
	c.cache.Set(key, value, ttl)
	return nil
}

func (c *Cache) MGet(_ context.Context, keys ...string) ([]string, error) {
	values := make([]string, len(keys))
	for i, key := range keys {
		values[i], _ = c.cache.Get(key)
	}
	return values, nil
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.cache.Close()
}
