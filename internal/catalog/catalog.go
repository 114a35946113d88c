// Package catalog supplies the engine with filament, printer and work package
// rates, optionally through an in-process ristretto cache.
package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/Simplici0/printdesk/internal/pricing"
)

// Provider returns the current catalog.
type Provider interface {
	Catalog(ctx context.Context) (pricing.Catalog, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (pricing.Catalog, error)

// Catalog calls f.
func (f ProviderFunc) Catalog(ctx context.Context) (pricing.Catalog, error) {
	return f(ctx)
}

const cacheKey = "catalog"

// Cached keeps the last catalog read from an upstream provider for ttl.
// Writers call Invalidate after changing the catalog.
type Cached struct {
	upstream Provider
	ttl      time.Duration
	cache    *ristretto.Cache[string, pricing.Catalog]

	// generation is bumped by Invalidate. A load that overlaps a bump is
	// returned to its caller but not cached.
	generation atomic.Uint64
}

// NewCached wraps upstream. A non-positive ttl disables caching.
func NewCached(upstream Provider, ttl time.Duration) (*Cached, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, pricing.Catalog]{
		NumCounters:        100,
		MaxCost:            10,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create catalog cache: %w", err)
	}
	return &Cached{upstream: upstream, ttl: ttl, cache: cache}, nil
}

// Catalog returns the cached catalog or loads it from upstream.
func (c *Cached) Catalog(ctx context.Context) (pricing.Catalog, error) {
	if c.ttl > 0 {
		if catalog, ok := c.cache.Get(cacheKey); ok {
			return catalog, nil
		}
	}

	generation := c.generation.Load()
	catalog, err := c.upstream.Catalog(ctx)
	if err != nil {
		return pricing.Catalog{}, err
	}

	if c.ttl > 0 && c.generation.Load() == generation {
		c.cache.SetWithTTL(cacheKey, catalog, 1, c.ttl)
		c.cache.Wait()
		// An Invalidate between the check and the Set must still win.
		if c.generation.Load() != generation {
			c.cache.Del(cacheKey)
		}
	}
	return catalog, nil
}

// Invalidate drops the cached catalog and keeps in-flight loads from
// caching what they read before the change.
func (c *Cached) Invalidate() {
	c.generation.Add(1)
	c.cache.Del(cacheKey)
}

// Close releases the cache.
func (c *Cached) Close() {
	c.cache.Close()
}
