package repository

import (
	"context"
	"time"
)

// DefaultQueryTimeout bounds a single database call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultQueryTimeout
	}
	return context.WithTimeout(ctx, d)
}
