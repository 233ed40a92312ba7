package controllers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	latestDigestKey     = "digests:latest"
	digestDatesKey      = "digests:dates"
	picksKeyPrefix      = "picks:"
	archiveAnalyticsKey = "archive:analytics"
)

// readThrough serves key from Redis, or loads and stores it. Redis failures
// fall through to load; load failures are returned and never cached.
func readThrough[T any](ctx context.Context, h *Handler, key string, load func(context.Context) (T, error)) (T, error) {
	var value T
	if h.redis != nil {
		cached, err := h.redis.Get(ctx, key).Result()
		switch {
		case err == nil:
			if err := json.Unmarshal([]byte(cached), &value); err == nil {
				return value, nil
			}
			logrus.WithField("key", key).Warn("dropping undecodable cache entry")
		case !errors.Is(err, redis.Nil):
			logrus.WithError(err).WithField("key", key).Warn("cache read failed")
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if h.redis != nil {
		data, err := json.Marshal(value)
		if err == nil {
			err = h.redis.Set(ctx, key, data, h.cacheTTL).Err()
		}
		if err != nil {
			logrus.WithError(err).WithField("key", key).Warn("cache write failed")
		}
	}
	return value, nil
}
