package config

import (
	"context"
	"fmt"
	"time"

	"github.com/felipepimentel/ai-news-digest/global"
	"github.com/go-redis/redis/v8"
)

func InitRedis(cfg *Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
	}

	global.RedisDB = client
	return nil
}
