package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/sportmate/internal/pkg/errcode"
	"github.com/xxxsen/sportmate/internal/pkg/response"
)

// Limiter counts hits per key within a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects a caller once it exceeds the limiter's budget for the
// route. Limiter errors fail open.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := strings.Join([]string{ip, path}, "|")
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logutil.GetLogger(c.Request.Context()).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
				zap.String("ip", ip),
				zap.String("path", path),
			)
			response.Error(c, errcode.ErrTooMany, http.StatusText(http.StatusTooManyRequests))
			c.Abort()
			return
		}
		c.Next()
	}
}

type windowCount struct {
	start time.Time
	count int
}

type memoryLimiter struct {
	mu            sync.Mutex
	max           int
	window        time.Duration
	hits          map[string]windowCount
	sweepInterval time.Duration
	lastSweep     time.Time
	now           func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) Limiter {
	return &memoryLimiter{
		max:           max,
		window:        window,
		hits:          make(map[string]windowCount),
		sweepInterval: window,
		now:           time.Now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.max <= 0 || l.window <= 0 {
		return true, nil
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cleanupExpiredLocked(now)
	entry, ok := l.hits[key]
	if !ok || now.Sub(entry.start) >= l.window {
		entry = windowCount{start: now}
	}
	entry.count++
	l.hits[key] = entry
	return entry.count <= l.max, nil
}

func (l *memoryLimiter) cleanupExpiredLocked(now time.Time) {
	if !l.lastSweep.IsZero() && now.Sub(l.lastSweep) < l.sweepInterval {
		return
	}
	for key, entry := range l.hits {
		if now.Sub(entry.start) >= l.window {
			delete(l.hits, key)
		}
	}
	l.lastSweep = now
}

type redisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

// NewRedisLimiter shares counters across instances through redis.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration) Limiter {
	return &redisLimiter{client: client, max: max, window: window, prefix: "rl:"}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.max <= 0 || l.window <= 0 {
		return true, nil
	}
	rkey := l.prefix + key
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	// the window and its expiry are created in the same transaction
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, rkey, 0, l.window)
		incr = pipe.Incr(ctx, rkey)
		ttl = pipe.TTL(ctx, rkey)
		return nil
	})
	if err != nil {
		return true, err
	}
	if ttl.Val() < 0 {
		// counter left without expiry, give it a fresh window
		if err := l.client.Expire(ctx, rkey, l.window).Err(); err != nil {
			return true, err
		}
	}
	return incr.Val() <= int64(l.max), nil
}
