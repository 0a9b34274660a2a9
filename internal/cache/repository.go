// Package cache memoizes computed results behind a small key/value
// repository. A cache failure never fails a computation.
package cache

import (
	"context"
	"time"
)

// Repository is the storage behind the cache. Get reports a miss with
// ok=false and a nil error; a non-nil error means the store itself failed.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
