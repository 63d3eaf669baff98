package repository

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"golang-token-sentry/pkg/logger"
)

// RateWindowRepository enforces sliding window publish caps shared across
// process restarts.
type RateWindowRepository interface {
	// Allow atomically records one event under key when the window still
	// has capacity and reports whether it was admitted.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// The script trims expired members, checks capacity and records the new
// event in one round trip so concurrent publishers cannot both squeeze
// into the last slot.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window)
	return {1, limit - count - 1}
end
return {0, 0}
`

var slidingWindow = redis.NewScript(slidingWindowScript)

type rateWindowRepository struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRateWindowRepository creates a redis backed RateWindowRepository.
func NewRateWindowRepository(client *redis.Client, log *logger.Logger) RateWindowRepository {
	return &rateWindowRepository{client: client, log: log}
}

func (r *rateWindowRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixMilli()
	member := fmt.Sprintf("%d-%06d", now, rand.Intn(1000000))

	res, err := slidingWindow.Run(ctx, r.client, []string{key},
		now, window.Milliseconds(), limit, member).Result()
	if err != nil {
		return false, fmt.Errorf("sliding window script: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return false, fmt.Errorf("unexpected sliding window reply: %v", res)
	}

	allowed, _ := vals[0].(int64)
	remaining, _ := vals[1].(int64)

	r.log.DebugContext(ctx, "Sliding window checked",
		logger.StringField("key", key),
		logger.Field("allowed", allowed == 1),
		logger.IntField("remaining", int(remaining)),
	)

	return allowed == 1, nil
}
