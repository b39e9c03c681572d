package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// UpdateDeduper remembers webhook update ids that were already
// processed. Telegram redelivers an update when the webhook answers
// slowly or with an error, and redelivered purchases should not run
// the command flow twice.
type UpdateDeduper interface {
	// FirstSeen records the update id and reports whether this is the
	// first time it was observed.
	FirstSeen(ctx context.Context, updateID int64) (bool, error)
}

type redisDeduper struct {
	redis *Redis
	ttl   time.Duration
}

// NewUpdateDeduper returns a Redis-backed deduper. Entries expire
// after ttl; Telegram stops redelivering long before that.
func NewUpdateDeduper(redis *Redis, ttl time.Duration) UpdateDeduper {
	return &redisDeduper{redis: redis, ttl: ttl}
}

func (d *redisDeduper) FirstSeen(ctx context.Context, updateID int64) (bool, error) {
	if d.redis == nil || d.redis.Client == nil {
		return false, errors.New("redis client not configured")
	}
	key := fmt.Sprintf("tg:update:%d", updateID)
	return d.redis.Client.SetNX(ctx, key, 1, d.ttl).Result()
}
