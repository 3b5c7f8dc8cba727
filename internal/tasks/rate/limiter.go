package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimit caps jobs per sliding window.
type RateLimit struct {
	Window  time.Duration
	MaxJobs int
}

// QueueConfig names the queue a limit applies to.
type QueueConfig struct {
	Name      string
	RateLimit RateLimit
}

// QueueRateLimiter is a sliding-window counter kept in a redis sorted set,
// one set per (queue, identifier). Shared with every process enqueueing to
// the same redis, so the cap holds across replicas.
type QueueRateLimiter struct {
	redis  *redis.Client
	config QueueConfig
}

func NewQueueRateLimiter(redis *redis.Client, config QueueConfig) *QueueRateLimiter {
	return &QueueRateLimiter{redis: redis, config: config}
}

// Allow records an attempt and reports whether it fits inside the window.
func (l *QueueRateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	key := fmt.Sprintf("queue_rate_limit:%s:%s", l.config.Name, identifier)
	now := time.Now().Unix()
	windowStart := now - int64(l.config.RateLimit.Window.Seconds())

	pipe := l.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, key, l.config.RateLimit.Window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis pipeline error: %w", err)
	}

	return countCmd.Val() <= int64(l.config.RateLimit.MaxJobs), nil
}
