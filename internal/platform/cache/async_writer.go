package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
)

// AsyncWriter decorates a Store so that writes happen on a bounded
// worker pool instead of the request goroutine. A slow backend never
// delays a response, and a write already submitted completes even if the
// request that produced it is cancelled, since it only populates a
// TTL-bounded entry.
type AsyncWriter struct {
	store  Store
	pool   *ants.Pool
	logger *slog.Logger
}

func NewAsyncWriter(store Store, size int, logger *slog.Logger) (*AsyncWriter, error) {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	return &AsyncWriter{
		store:  store,
		pool:   pool,
		logger: logger,
	}, nil
}

// Get reads synchronously from the underlying store.
func (w *AsyncWriter) Get(ctx context.Context, key string) (string, bool, error) {
	return w.store.Get(ctx, key)
}

// Set submits the write to the worker pool and returns immediately. The
// write runs with a detached context so caller cancellation does not
// tear it down. If the pool is saturated the value is simply not cached.
func (w *AsyncWriter) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	err := w.pool.Submit(func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), ttl)
		defer cancel()
		_ = w.store.Set(writeCtx, key, value, ttl)
	})
	if err != nil {
		w.logger.Warn("Cache write pool saturated, value not cached", "key", key, "error", err)
	}
	return nil
}

// Release stops the worker pool. Pending writes are abandoned.
func (w *AsyncWriter) Release() {
	w.pool.Release()
}

var _ Store = (*AsyncWriter)(nil)
