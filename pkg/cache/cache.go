// Package cache provides byte caches for solver results.
//
// Solving the same problem twice always gives the same answer, so the
// service layer stores encoded solutions under keys derived from a content
// hash of the problem. Three backends implement [Cache]:
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//
// Keys come from a [Keyer]; [ScopedKeyer] adds a namespace prefix so that
// several deployments can share one Redis instance.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. Callers treat cache failures as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default entry lifetimes.
const (
	// TTLSolution is how long an initial solution stays cached.
	TTLSolution = 7 * 24 * time.Hour

	// TTLOptimized is how long a stepping-stone result stays cached.
	TTLOptimized = 7 * 24 * time.Hour

	// TTLVerify is how long an exact-optimum report stays cached.
	TTLVerify = 24 * time.Hour
)
