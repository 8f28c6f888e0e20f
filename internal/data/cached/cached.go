// Package cached provides read-through cache decorators for the catalog
// readers (tags, entities, permissions). The tag forest and entity list
// are small but consulted on every request; a short TTL in front of them
// keeps the store quiet without affecting correctness, since each
// request treats whatever snapshot it gets as immutable.
package cached

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/tomycastelli/sistema-maika/internal/platform/cache"
)

// lookup is the shared read-through step: try the cache, fall back to
// load, then populate best-effort. Cache failures are misses by
// contract of cache.Store.
func lookup[T any](ctx context.Context, store cache.Store, logger *slog.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if raw, ok, _ := store.Get(ctx, key); ok {
		var value T
		if err := json.Unmarshal([]byte(raw), &value); err == nil {
			return value, nil
		}
		// An undecodable entry is treated as a miss and overwritten.
		logger.Warn("Discarding undecodable cache entry", "key", key)
	}

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if raw, err := json.Marshal(value); err == nil {
		_ = store.Set(ctx, key, string(raw), ttl)
	}

	return value, nil
}
