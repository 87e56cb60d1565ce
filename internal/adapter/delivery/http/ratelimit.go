package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter bounds login attempts per client identity. The window is
// fixed and counted independently of the outcome.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter implements a fixed window over a shared Redis instance so the
// budget holds across replicas. INCR is atomic; the expiry is attached to
// the first hit of each window.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		limit:  int64(limit),
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	const op = "http.RedisLimiter.Allow"

	key = "ratelimit:login:" + key

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		// Fail open: an unreachable limiter must not lock everyone out.
		return true, fmt.Errorf("%s: failed to increment counter: %w", op, err)
	}

	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return true, fmt.Errorf("%s: failed to set window expiry: %w", op, err)
		}
	}

	return n <= l.limit, nil
}

// MemoryLimiter is the in-process fallback used when no Redis is configured
// and in tests. Same fixed-window semantics, per-process scope.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	window  time.Duration
}

type window struct {
	count int
	reset time.Time
}

func NewMemoryLimiter(limit int, windowSize time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		window:  windowSize,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	w, ok := l.windows[key]
	if !ok || now.After(w.reset) {
		w = &window{reset: now.Add(l.window)}
		l.windows[key] = w
	}

	w.count++
	return w.count <= l.limit, nil
}
