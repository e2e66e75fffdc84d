package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl}
}

// AcquireOnce tries to acquire a dedup lock for a given handler + meetingID.
// Returns true if this is the first time processing, false on a duplicate.
// When redis is unavailable processing is allowed through rather than blocked.
func (d *Deduper) AcquireOnce(ctx context.Context, handler string, meetingID int) bool {
	key := fmt.Sprintf("dedup:%s:%d", handler, meetingID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}
