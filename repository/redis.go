package repository

import (
	"context"
	"time"

	"hotel_manager/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient returns nil when Redis is not configured or not reachable.
// Callers treat a nil client as "no shared cache".
func NewRedisClient(cfg *config.AppConfig, log *logrus.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, running without redis")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unreachable, running without redis")
		_ = client.Close()
		return nil
	}

	log.WithField("addr", cfg.RedisAddr).Info("connected to redis")
	return client
}
