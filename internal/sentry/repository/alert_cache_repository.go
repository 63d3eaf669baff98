package repository

import (
	"context"
	"fmt"
	"time"

	"golang-token-sentry/pkg/common"
	"golang-token-sentry/pkg/logger"
	redisPkg "golang-token-sentry/pkg/redis"
)

// AlertCacheRepository remembers which lifecycle alerts already fired so
// an alert is posted at most once per signal, across restarts too.
type AlertCacheRepository interface {
	// TryMark records the alert marker. It returns true the first time
	// and false when the marker already exists.
	TryMark(ctx context.Context, address, kind string, ttl time.Duration) (bool, error)
}

type alertCacheRepository struct {
	redisClient *redisPkg.Client
	log         *logger.Logger
}

// NewAlertCacheRepository creates a redis backed AlertCacheRepository.
func NewAlertCacheRepository(redisClient *redisPkg.Client, log *logger.Logger) AlertCacheRepository {
	return &alertCacheRepository{redisClient: redisClient, log: log}
}

func (r *alertCacheRepository) TryMark(ctx context.Context, address, kind string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf(common.RedisKeyLifecycleAlert, kind, address)

	ok, err := r.redisClient.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
