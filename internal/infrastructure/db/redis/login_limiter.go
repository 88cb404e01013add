package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginLimiter counts failed logins per principal in a fixed window.
// Key format: login_failures:<principal>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another attempt is permitted for principal.
func (l *LoginLimiter) Allow(ctx context.Context, principal string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(principal)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter check: %w", err)
	}
	return n < l.maxAttempts, nil
}

// RecordFailure increments the failure counter. The window starts with the
// first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, principal string) error {
	key := l.key(principal)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login limiter record: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, principal string) error {
	return l.client.Del(ctx, l.key(principal)).Err()
}

func (l *LoginLimiter) key(principal string) string {
	return "login_failures:" + strings.ToLower(principal)
}
