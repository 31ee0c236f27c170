package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"memeshare/internal/platform/config"
)

var RDB *redis.Client

func ConnectRedis(ctx context.Context, cfg *config.Config) error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := RDB.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("could not connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	logrus.WithField("addr", cfg.RedisAddr).Info("Redis connected")
	return nil
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		logrus.Info("Redis connection closed")
	}
}
