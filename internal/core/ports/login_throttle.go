package ports

import (
	"context"
	"time"
)

// LoginThrottle tracks failed login attempts per client key.
type LoginThrottle interface {
	// Blocked returns how long the key stays locked out, or zero when it may try again.
	Blocked(ctx context.Context, key string) (time.Duration, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
