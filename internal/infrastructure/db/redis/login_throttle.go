package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const throttleKeyPrefix = "login:failures:"

// keyMissing is the TTL reply for a key that does not exist. A key without
// expiry replies -1.
const keyMissing = time.Duration(-2)

// LoginThrottle counts failed logins per client key in a fixed window.
// Key format: login:failures:<client_key>
type LoginThrottle struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle creates a LoginThrottle that locks a key out after
// maxAttempts failures until its window expires.
func NewLoginThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

// Blocked reports the remaining lockout for key, or zero when it may try again.
func (t *LoginThrottle) Blocked(ctx context.Context, key string) (time.Duration, error) {
	if t.maxAttempts <= 0 {
		return 0, nil
	}

	k := t.key(key)
	n, err := t.client.Get(ctx, k).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("throttle get: %w", err)
	}
	if n < t.maxAttempts {
		return 0, nil
	}

	ttl, err := t.client.TTL(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("throttle ttl: %w", err)
	}
	switch {
	case ttl == keyMissing:
		return 0, nil
	case ttl <= 0:
		// A counter that lost its expiry would lock the key out forever.
		if err := t.client.Expire(ctx, k, t.window).Err(); err != nil {
			return 0, fmt.Errorf("throttle rearm: %w", err)
		}
		return t.window, nil
	}
	return ttl, nil
}

// RecordFailure increments the failure counter. The window starts on the first
// failure; INCR and EXPIRE NX run in one transaction so a counter is never
// left without an expiry by a partial write.
func (t *LoginThrottle) RecordFailure(ctx context.Context, key string) error {
	k := t.key(key)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, t.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}

// Reset forgets all failures for key.
func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, t.key(key)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(clientKey string) string {
	return throttleKeyPrefix + clientKey
}
