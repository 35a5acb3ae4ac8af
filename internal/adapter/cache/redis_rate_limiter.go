package cache

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindowScript runs the whole admit decision as one atomic unit on
// the shared store: drop expired timestamps, count the rest, deny or record
// the new one and refresh the TTL. A read-then-write pair of round trips
// would race between API instances.
//
// KEYS[1] = rate key, ARGV[1] = now (unix ms), ARGV[2] = window (ms),
// ARGV[3] = max requests, ARGV[4] = unique member, ARGV[5] = TTL (s).
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= max then
	return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('EXPIRE', key, ARGV[5])
return 1
`)

// RedisRateLimiter is a sliding-window log shared by all API instances.
type RedisRateLimiter struct {
	rdb         *redis.Client
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

func NewRedisRateLimiter(rdb *redis.Client, maxRequests int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		rdb:         rdb,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow reports whether the identity may make another request inside the
// rolling window. The key is expected in the form rate:<scope>:<identity>.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()

	// Timestamps alone collide for requests in the same instant; the nonce
	// keeps every admitted request counted.
	member := fmt.Sprintf("%d-%04d", now.UnixNano(), rand.Intn(10000))

	res, err := slidingWindowScript.Run(ctx, l.rdb,
		[]string{key},
		now.UnixMilli(),
		l.window.Milliseconds(),
		l.maxRequests,
		member,
		int(l.window.Seconds()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}
	return res == 1, nil
}
