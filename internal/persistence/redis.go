package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/contact-service/internal/config"
	"github.com/spec-kit/contact-service/internal/domain"
)

const statsCacheKey = "dashboard:stats"

// Redis wraps the go-redis client. It backs the dashboard stats cache; when
// Redis is unreachable reads simply fall through to the database.
type Redis struct {
	Client   *redis.Client
	statsTTL time.Duration
	logger   *zap.Logger
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client, statsTTL: cfg.StatsTTL(), logger: logger}
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

// GetStats returns cached dashboard stats, reporting a miss on any error.
func (r *Redis) GetStats(ctx context.Context) (*domain.ContactStats, bool) {
	if r == nil || r.Client == nil {
		return nil, false
	}
	raw, err := r.Client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var stats domain.ContactStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// SetStats caches dashboard stats best-effort.
func (r *Redis) SetStats(ctx context.Context, stats *domain.ContactStats) {
	if r == nil || r.Client == nil || stats == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := r.Client.Set(ctx, statsCacheKey, raw, r.statsTTL).Err(); err != nil {
		r.logger.Debug("stats cache write failed", zap.Error(err))
	}
}
