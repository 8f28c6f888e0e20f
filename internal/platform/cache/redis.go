package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tomycastelli/sistema-maika/internal/config"
)

// RedisStore implements Store on top of a Redis instance. Backend
// failures are logged and reported to callers as misses so that balance
// correctness never depends on cache availability.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore connects to Redis. A failed ping is logged, not fatal:
// the store stays usable and every operation degrades to a miss until
// the backend comes back.
func NewRedisStore(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, cache lookups will miss until it recovers", "addr", cfg.Addr, "error", err)
	} else {
		logger.Info("Connected to Redis", "addr", cfg.Addr)
	}

	return &RedisStore{
		client: client,
		logger: logger,
	}
}

// Get returns the cached value for key. Any backend error is reported as
// a miss.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		s.logger.Warn("Cache get failed, treating as miss", "key", key, "error", err)
		return "", false, nil
	}
	return value, true, nil
}

// Set stores value under key with SET ... EX semantics. Errors are
// logged and swallowed; a dropped cache write only costs a recomputation.
func (s *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Warn("Cache set failed, value not cached", "key", key, "error", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
