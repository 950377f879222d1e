package testsupport

import (
	"context"
	"sync"
	"time"

	"github.com/billow-homes/homes-api/cache"
)

// MapCache is a map-backed cache.Cache that can be made to fail, to
// exercise the degrade-to-store path.
type MapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration

	// Err, when set, is returned by every method.
	Err error
}

func NewMapCache() *MapCache {
	return &MapCache{entries: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *MapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	v, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (c *MapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *MapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	for _, k := range keys {
		delete(c.entries, k)
		delete(c.ttls, k)
	}
	return nil
}

// Has reports whether key is cached.
func (c *MapCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// TTL returns the ttl key was last set with.
func (c *MapCache) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[key]
}
