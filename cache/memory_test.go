package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c, err := NewMemoryCache(DefaultMemoryConfig())
	if err != nil {
		t.Fatalf("new memory cache: %v", err)
	}
	ctx := context.Background()

	if _, err := c.Get(ctx, HomeKey("1")); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}

	_ = c.Set(ctx, HomeKey("1"), []byte("payload"), time.Hour)
	got, err := c.Get(ctx, HomeKey("1"))
	if err != nil || string(got) != "payload" {
		t.Fatalf("expected payload, got %q (%v)", got, err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}

	_ = c.Delete(ctx, HomeKey("1"))
	if _, err := c.Get(ctx, HomeKey("1")); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestNewMemoryCacheRejectsBadConfig(t *testing.T) {
	cfg := DefaultMemoryConfig()
	cfg.EvictionPercentage = 0
	if _, err := NewMemoryCache(cfg); err == nil {
		t.Fatal("expected error for eviction percentage 0")
	}

	cfg = DefaultMemoryConfig()
	cfg.TTL = 0
	if _, err := NewMemoryCache(cfg); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestNopCacheAlwaysMisses(t *testing.T) {
	var c Cache = NopCache{}
	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"), time.Hour)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
}
