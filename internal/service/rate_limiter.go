package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// slidingWindowScript counts attempts in the trailing window atomically.
// Attempts live in a sorted set scored by unix time: expired entries are
// pruned, the attempt is recorded only when under the limit, and the key
// expires shortly after the window so idle clients cost nothing.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

if redis.call('ZCARD', key) >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    if #oldest >= 2 then
        return {0, tonumber(oldest[2]) + window}
    end
    return {0, now + window}
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)
return {1, now + window}
`)

// RateLimiter throttles the unauthenticated auth endpoints (login, token
// exchange, registration) per client IP. State lives in redis so the limit
// holds across restarts and is shared between replicas.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow records one attempt for the client IP under the given scope and
// reports whether it stays within the limit, along with when the window
// resets. These endpoints guard credentials and single-use tokens, so a
// redis failure denies the attempt rather than waving it through.
func (rl *RateLimiter) Allow(ctx context.Context, scope, clientIP string) (allowed bool, resetAt time.Time) {
	key := fmt.Sprintf("ratelimit:ip:%s:%s", scope, clientIP)

	result, err := slidingWindowScript.Run(
		ctx,
		rl.client,
		[]string{key},
		time.Now().Unix(),
		int64(rl.window.Seconds()),
		rl.limit,
	).Int64Slice()
	if err != nil {
		log.Warn().
			Err(err).
			Str("scope", scope).
			Msg("rate limit check failed, denying attempt")
		return false, time.Now().Add(rl.window)
	}

	if len(result) != 2 {
		log.Warn().Str("scope", scope).Msg("unexpected rate limit script result, denying attempt")
		return false, time.Now().Add(rl.window)
	}

	return result[0] == 1, time.Unix(result[1], 0)
}
