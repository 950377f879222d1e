package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/viccon/sturdyc"
)

type MemoryConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          64,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
	}
}

// MemoryCache is an in-process cache for single-instance deployments and
// local development. Entries expire after the TTL the cache was built with;
// the per-call ttl passed to Set is not honoured.
type MemoryCache struct {
	client *sturdyc.Client[[]byte]
}

func NewMemoryCache(cfg MemoryConfig) (*MemoryCache, error) {
	if cfg.Capacity <= 0 || cfg.NumShards <= 0 || cfg.TTL <= 0 {
		return nil, fmt.Errorf("memory cache: capacity, shards and ttl must be positive")
	}
	if cfg.EvictionPercentage < 1 || cfg.EvictionPercentage > 100 {
		return nil, fmt.Errorf("memory cache: eviction percentage must be between 1 and 100")
	}
	client := sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)
	return &MemoryCache{client: client}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := c.client.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return val, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.client.Set(key, value)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.client.Delete(key)
	}
	return nil
}

func (c *MemoryCache) Len() int {
	return c.client.Size()
}
