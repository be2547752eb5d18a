package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	queueCacheKeyPrefix = "qc:dupset:"
	// queueCacheSentinel marks a populated-but-empty set so a cached
	// "no duplicates" result is distinguishable from a cache miss.
	queueCacheSentinel = "-"
)

// QueueCache holds the pending queue's duplicate phone set in redis.
// The set is read-mostly and invalidated wholesale after any successful
// disposition commit; there is no fine-grained merge. A nil client disables
// caching entirely and every read is a miss.
type QueueCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewQueueCache(rdb *redis.Client, ttl time.Duration) *QueueCache {
	return &QueueCache{rdb: rdb, ttl: ttl}
}

func queueCacheKey(scope string) string {
	if scope == "" {
		scope = "all"
	}
	return queueCacheKeyPrefix + scope
}

// Get returns the cached duplicate phone set for the scope, and whether the
// cache held an entry at all.
func (c *QueueCache) Get(ctx context.Context, scope string) (map[string]struct{}, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	members, err := c.rdb.SMembers(ctx, queueCacheKey(scope)).Result()
	if err != nil || len(members) == 0 {
		return nil, false
	}

	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m != queueCacheSentinel {
			set[m] = struct{}{}
		}
	}
	return set, true
}

// Set replaces the scope's duplicate phone set.
func (c *QueueCache) Set(ctx context.Context, scope string, phones map[string]struct{}) {
	if c == nil || c.rdb == nil {
		return
	}

	key := queueCacheKey(scope)
	members := make([]interface{}, 0, len(phones)+1)
	members = append(members, queueCacheSentinel)
	for p := range phones {
		members = append(members, p)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, c.ttl)
	_, _ = pipe.Exec(ctx)
}

// Invalidate drops every scope's cached set. Called after any disposition
// commit, since one lead's disposition can change other leads' duplicate state.
func (c *QueueCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}

	iter := c.rdb.Scan(ctx, 0, queueCacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = c.rdb.Del(ctx, iter.Val()).Err()
	}
}
