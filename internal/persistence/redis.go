package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/config"
)

// Redis wraps the go-redis client and stores JSON values.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
// It returns nil when no address is configured.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not provided; identity cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Get decodes the JSON value stored at key into dest.
// A missing key yields redis.Nil.
func (r *Redis) Get(ctx context.Context, key string, dest any) error {
	if r == nil || r.Client == nil {
		return redis.Nil
	}
	val, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

// Set stores value as JSON under key.
func (r *Redis) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key, data, expiration).Err()
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
