// Package cache stores rendered floor plans so that exporting an unchanged
// layout again skips Graphviz.
//
// Entries are keyed by a hash of the DOT source and the output format, so a
// moved item or a different scale produces a new key and stale entries are
// never served. Entries expire after their TTL; [FileCache.Clear] removes
// everything.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a rendered plan stays cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PlanKey returns the key for a floor plan rendered from dot into format.
func PlanKey(format, dot string) string {
	return hashKey("plan", format, dot)
}
