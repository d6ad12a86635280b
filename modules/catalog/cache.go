package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/storefront-inventory/domain/catalog"
)

// ProductCache is a read-through cache of single products.
type ProductCache interface {
	Get(ctx context.Context, id string) (*catalog.Product, bool, error)
	Set(ctx context.Context, p *catalog.Product) error
	Delete(ctx context.Context, id string) error
	Stats() CacheStats
	Close() error
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Enabled bool    `json:"enabled"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Sets    uint64  `json:"sets"`
	Errors  uint64  `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

// redisCache caches products in Redis as JSON.
type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64
	sets   atomic.Uint64
	errors atomic.Uint64
}

// NewRedisCache creates a product cache over client.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) ProductCache {
	return &redisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, id string) (*catalog.Product, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			c.misses.Add(1)
			return nil, false, nil
		}
		c.errors.Add(1)
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	var p catalog.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.errors.Add(1)
		return nil, false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	c.hits.Add(1)
	return &p, true, nil
}

func (c *redisCache) Set(ctx context.Context, p *catalog.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		c.errors.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+p.ID, data, c.ttl).Err(); err != nil {
		c.errors.Add(1)
		return fmt.Errorf("cache set error: %w", err)
	}
	c.sets.Add(1)
	return nil
}

func (c *redisCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.prefix+id).Err(); err != nil {
		c.errors.Add(1)
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

func (c *redisCache) Stats() CacheStats {
	hits, misses := c.hits.Load(), c.misses.Load()
	stats := CacheStats{
		Enabled: true,
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Errors:  c.errors.Load(),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

// nopCache is used when caching is disabled.
type nopCache struct{}

func (nopCache) Get(context.Context, string) (*catalog.Product, bool, error) { return nil, false, nil }
func (nopCache) Set(context.Context, *catalog.Product) error                 { return nil }
func (nopCache) Delete(context.Context, string) error                        { return nil }
func (nopCache) Stats() CacheStats                                           { return CacheStats{} }
func (nopCache) Close() error                                                { return nil }
