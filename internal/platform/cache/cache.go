// Package cache provides the key/value store used by the read-through
// caches in front of the ledger. Backends expire values by TTL; there is
// no explicit invalidation anywhere in this service, so readers accept
// staleness bounded by the TTL of each key.
package cache

import (
	"context"
	"time"
)

// Store is a TTL-expiring string key/value store. Implementations must
// never make a request fail because the backend is unreachable: Get
// reports a miss and Set drops the write instead.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
