package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// rateLimitScript implements a fixed window counter: the first hit in a
// window sets the expiry, later hits only increment.
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RateLimiter limits how often a single client may hit an endpoint. Used
// on the credential endpoints (register/login) to slow down brute force.
type RateLimiter struct {
	rdb    *goredis.Client
	script *goredis.Script
	limit  int
	window time.Duration
}

// NewRateLimiter creates a fixed-window rate limiter allowing limit hits
// per window per key.
func NewRateLimiter(rdb *goredis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		script: goredis.NewScript(rateLimitScript),
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the caller identified by key may proceed. Redis
// failures fail open: availability of login beats strict limiting.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := fmt.Sprintf("rate_limit:%s", key)
	allowed, err := l.script.Run(ctx, l.rdb, []string{fullKey}, l.window.Milliseconds(), l.limit).Int64()
	if err != nil {
		return true, fmt.Errorf("rate limit check failed: %w", err)
	}
	return allowed == 1, nil
}
