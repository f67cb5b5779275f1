package storage

import (
	"context"
	"time"
)

// Counter stores fixed-window hit counts keyed by client
type Counter interface {
	// Increment records one hit against key. The first hit in a window opens
	// a new window of the given length. Returns the hit count so far and the
	// time remaining until the window resets.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)

	// Reset discards the window for key
	Reset(ctx context.Context, key string) error
}
