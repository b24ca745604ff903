package shared

import (
	"context"
	"time"
)

// IdempotencyStore tracks request keys that have already been accepted so a
// retried submission can be recognized and short-circuited. Implementations
// must make MarkProcessed atomic (first caller wins).
type IdempotencyStore interface {
	// MarkProcessed records the key with a TTL. Returns true if the key was
	// newly recorded, false if it had been recorded before.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key has been recorded.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
