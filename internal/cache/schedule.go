// Package cache holds the Redis-backed response cache for the schedule
// listing, the one read that every client polls repeatedly.  Caching is
// best-effort: a nil client or any Redis error falls through to the
// database, never to the user.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const scheduleKey = "icearena:schedule"

// ScheduleCache stores the serialized get_schedule response body.
type ScheduleCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewScheduleCache wraps the Redis client.  rdb may be nil, in which case
// every lookup misses and every write is a no-op.
func NewScheduleCache(rdb *redis.Client, ttl time.Duration) *ScheduleCache {
	return &ScheduleCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached response body and whether it was present.
func (c *ScheduleCache) Get(ctx context.Context) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, scheduleKey).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

// Set stores the response body for the configured TTL.
func (c *ScheduleCache) Set(ctx context.Context, body []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Set(ctx, scheduleKey, body, c.ttl).Err()
}

// Invalidate drops the cached schedule.  Called after any write that moves
// a seat counter so clients never see a stale availability number longer
// than one round trip.
func (c *ScheduleCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, scheduleKey).Err()
}
