package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys so replayed mutations can be
// detected. MarkProcessed is atomic: exactly one caller wins for a
// given key while it lives.
type IdempotencyStore interface {
	// MarkProcessed marks the key as seen with a TTL. Returns true if
	// the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key has been seen and not expired
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases resources held by the store
	Close() error
}
