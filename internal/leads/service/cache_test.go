package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*QueueCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewQueueCache(rdb, time.Minute), mr
}

func TestQueueCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "all"); ok {
		t.Fatal("empty cache reported a hit")
	}

	cache.Set(ctx, "all", map[string]struct{}{"+15550100": {}, "+15550101": {}})

	set, ok := cache.Get(ctx, "all")
	if !ok {
		t.Fatal("populated cache reported a miss")
	}
	if len(set) != 2 {
		t.Fatalf("set = %v, want 2 phones", set)
	}
	if _, found := set["+15550100"]; !found {
		t.Error("stored phone missing from cached set")
	}
}

func TestQueueCacheEmptySetIsAHit(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "all", nil)

	set, ok := cache.Get(ctx, "all")
	if !ok {
		t.Fatal("cached empty set must count as a hit, not a miss")
	}
	if len(set) != 0 {
		t.Fatalf("set = %v, want empty", set)
	}
}

func TestQueueCacheScopesAreIndependent(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "campaign-a", map[string]struct{}{"+15550100": {}})

	if _, ok := cache.Get(ctx, "campaign-b"); ok {
		t.Fatal("scope b must not see scope a's set")
	}
}

func TestQueueCacheInvalidateDropsAllScopes(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "all", map[string]struct{}{"+15550100": {}})
	cache.Set(ctx, "campaign-a", map[string]struct{}{"+15550101": {}})

	cache.Invalidate(ctx)

	if _, ok := cache.Get(ctx, "all"); ok {
		t.Error("scope all survived invalidation")
	}
	if _, ok := cache.Get(ctx, "campaign-a"); ok {
		t.Error("scope campaign-a survived invalidation")
	}
}

func TestQueueCacheDisabledIsAlwaysMiss(t *testing.T) {
	var cache *QueueCache
	ctx := context.Background()

	cache.Set(ctx, "all", map[string]struct{}{"+15550100": {}})
	cache.Invalidate(ctx)
	if _, ok := cache.Get(ctx, "all"); ok {
		t.Fatal("nil cache reported a hit")
	}
}
