package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTooManyAttempts  = errors.New("too many login attempts, try again later")
	errRedisUnavailable = errors.New("rate limit store unavailable")
)

// LoginLimiter throttles credential attempts per email and per source IP
// using fixed-window counters in Redis.
type LoginLimiter struct {
	redis       *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(redisClient *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		redis:       redisClient,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Allow checks both counters before a credential check is attempted. When the
// limiter has no Redis client it fails open so auth keeps working without the
// throttle.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) error {
	if l == nil || l.redis == nil {
		return nil
	}

	if email != "" {
		if err := l.enforceKey(ctx, emailKey(email)); err != nil {
			return err
		}
	}
	if ip != "" {
		if err := l.enforceKey(ctx, ipKey(ip)); err != nil {
			return err
		}
	}
	return nil
}

func (l *LoginLimiter) enforceKey(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", errRedisUnavailable, err)
		}
	}

	if count > int64(l.maxAttempts) {
		return ErrTooManyAttempts
	}

	return nil
}

// Reset clears the email counter after a successful login so legitimate users
// are not locked out by their own earlier typos.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.redis == nil || email == "" {
		return
	}
	l.redis.Del(ctx, emailKey(email))
}

// IsUnavailable reports whether the error came from the store rather than the
// throttle itself.
func IsUnavailable(err error) bool {
	return errors.Is(err, errRedisUnavailable)
}

func emailKey(email string) string {
	return "login:email:" + strings.ToLower(email)
}

func ipKey(ip string) string {
	return "login:ip:" + ip
}
