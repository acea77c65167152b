package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
)

const redisProbeTimeout = 2 * time.Second

// Redis holds the client behind the revoked token store.
type Redis struct {
	Client    *redis.Client
	available bool
}

// NewRedis builds the client and probes the server once. An unreachable
// server is reported through Available rather than as an error.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisProbeTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	r := &Redis{Client: client}

	probeCtx, cancel := context.WithTimeout(ctx, redisProbeTimeout)
	defer cancel()
	if err := client.Ping(probeCtx).Err(); err != nil {
		logger.Warn("redis unreachable", zap.String("addr", cfg.Addr), zap.Error(err))
		return r
	}
	r.available = true
	logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	return r
}

// Available reports whether the startup probe succeeded.
func (r *Redis) Available() bool {
	return r != nil && r.available
}

// Ping verifies Redis connectivity for readiness checks.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}
