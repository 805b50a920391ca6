package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// slidingWindowScript trims, counts and conditionally appends in one round trip.
// KEYS[1] key; ARGV: now ms, window ms, max, member.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= max then
	return {0, count}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1}
`)

// RedisStore keeps hit logs in redis sorted sets so every replica shares one counter.
type RedisStore struct {
	client redis.Scripter
	prefix string
}

// NewRedisStore stores keys under prefix.
func NewRedisStore(client redis.Scripter, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration, max int) (Result, error) {
	res, err := slidingWindowScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		now.UnixMilli(),
		window.Milliseconds(),
		max,
		strconv.FormatInt(now.UnixNano(), 10)+"-"+uuid.NewString(),
	).Slice()
	if err != nil {
		return Result{}, fmt.Errorf("redis sliding window: %w", err)
	}
	if len(res) != 2 {
		return Result{}, fmt.Errorf("redis sliding window: unexpected reply %v", res)
	}
	allowed, ok1 := res[0].(int64)
	count, ok2 := res[1].(int64)
	if !ok1 || !ok2 {
		return Result{}, fmt.Errorf("redis sliding window: unexpected reply %v", res)
	}
	return Result{Allowed: allowed == 1, Count: int(count)}, nil
}

var _ Store = (*RedisStore)(nil)
