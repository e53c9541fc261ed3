package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds limiter tuning parameters.
//
// MaxAttempts == 0 is the emergency lockdown switch: every check
// reports limited, regardless of recorded history. Window is the
// length of the sliding interval attempts are counted in.
type Config struct {
	Prefix      string
	MaxAttempts int
	Window      time.Duration

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	// Logger receives fail-open warnings. Defaults to a nop logger.
	Logger *zap.Logger

	// OnFailOpen, when set, is invoked once per operation that failed
	// open because the store was unreachable. Hook for counters.
	OnFailOpen func()
}

// Limiter enforces a per-identifier sliding-window attempt budget
// backed by a Redis sorted set per identifier.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "rate_limit"
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

func (l *Limiter) key(identifier string) string {
	return l.config.Prefix + ":" + identifier
}

// IsLimited reports whether the identifier has exhausted its attempt
// budget inside the current window. Entries older than the window are
// pruned before counting.
//
// Redis failures fail open: the identifier is reported as not limited
// and the error is logged, never returned.
func (l *Limiter) IsLimited(ctx context.Context, identifier string) bool {
	if l.config.MaxAttempts == 0 {
		// Lockdown. No history consulted, nothing to prune.
		return true
	}

	count, err := l.pruneAndCount(ctx, identifier)
	if err != nil {
		l.failOpen("check", identifier, err)
		return false
	}

	return count >= int64(l.config.MaxAttempts)
}

// Increment records a failed attempt at the current time and pushes the
// key TTL out to twice the window. Call exactly once per failed
// attempt; successful attempts should call Reset instead.
func (l *Limiter) Increment(ctx context.Context, identifier string) {
	now := l.config.Now().Unix()
	key := l.key(identifier)

	// Member is the second-resolution timestamp, so attempts landing in
	// the same second coalesce into one entry.
	_, err := l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(now),
			Member: strconv.FormatInt(now, 10),
		})
		pipe.Expire(ctx, key, 2*l.config.Window)
		return nil
	})
	if err != nil {
		l.failOpen("increment", identifier, err)
	}
}

// Reset deletes the identifier's entire window. Called after a
// successful login so prior failures stop counting.
func (l *Limiter) Reset(ctx context.Context, identifier string) {
	if err := l.redis.Del(ctx, l.key(identifier)).Err(); err != nil {
		l.failOpen("reset", identifier, err)
	}
}

// Remaining returns how many attempts are left before the identifier
// becomes limited, after pruning. Never negative.
func (l *Limiter) Remaining(ctx context.Context, identifier string) int {
	if l.config.MaxAttempts == 0 {
		return 0
	}

	count, err := l.pruneAndCount(ctx, identifier)
	if err != nil {
		l.failOpen("remaining", identifier, err)
		return l.config.MaxAttempts
	}

	remaining := l.config.MaxAttempts - int(count)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TimeUntilReset returns how long until the oldest recorded attempt
// slides out of the window, which is when the limiter would next admit
// an attempt. The second return is false when no attempt is recorded or
// the oldest one has already left the window.
func (l *Limiter) TimeUntilReset(ctx context.Context, identifier string) (time.Duration, bool) {
	oldest, err := l.redis.ZRangeWithScores(ctx, l.key(identifier), 0, 0).Result()
	if err != nil {
		l.failOpen("time_until_reset", identifier, err)
		return 0, false
	}
	if len(oldest) == 0 {
		return 0, false
	}

	resetAt := time.Unix(int64(oldest[0].Score), 0).Add(l.config.Window)
	now := l.config.Now()
	if !resetAt.After(now) {
		return 0, false
	}

	return resetAt.Sub(now), true
}

func (l *Limiter) pruneAndCount(ctx context.Context, identifier string) (int64, error) {
	key := l.key(identifier)
	windowStart := l.config.Now().Add(-l.config.Window).Unix()

	if err := l.redis.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(windowStart, 10)).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	count, err := l.redis.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return count, nil
}

func (l *Limiter) failOpen(op, identifier string, err error) {
	l.config.Logger.Warn("rate limiter failing open",
		zap.String("op", op),
		zap.String("identifier", identifier),
		zap.Error(err),
	)
	if l.config.OnFailOpen != nil {
		l.config.OnFailOpen()
	}
}
