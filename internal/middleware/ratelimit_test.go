package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRateLimit_BlocksOverBudget(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now()
	limiter := &memoryLimiter{
		max:           2,
		window:        10 * time.Second,
		hits:          make(map[string]windowCount),
		sweepInterval: 10 * time.Second,
		now: func() time.Time {
			return now
		},
	}
	handle := RateLimit(limiter)

	for i := 0; i < 2; i++ {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/api/auth/login", nil)
		handle(c)
		require.False(t, c.IsAborted())
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/auth/login", nil)
	handle(c)
	require.True(t, c.IsAborted())

	now = now.Add(10 * time.Second)
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/auth/login", nil)
	handle(c)
	require.False(t, c.IsAborted())
}

func TestMemoryLimiterCleanupExpiredLocked_RemovesExpiredEntries(t *testing.T) {
	base := time.Now()
	limiter := &memoryLimiter{
		max:           1,
		window:        10 * time.Second,
		hits:          make(map[string]windowCount),
		sweepInterval: 10 * time.Second,
		now:           time.Now,
	}
	limiter.hits["expired"] = windowCount{start: base.Add(-20 * time.Second), count: 1}
	limiter.hits["active"] = windowCount{start: base.Add(-2 * time.Second), count: 1}

	limiter.mu.Lock()
	limiter.cleanupExpiredLocked(base)
	limiter.mu.Unlock()

	require.NotContains(t, limiter.hits, "expired")
	require.Contains(t, limiter.hits, "active")
	require.False(t, limiter.lastSweep.IsZero())
}

func TestRedisLimiter(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := NewRedisLimiter(client, 3, time.Minute)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "1.2.3.4|/api/auth/login")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := limiter.Allow(ctx, "1.2.3.4|/api/auth/login")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = limiter.Allow(ctx, "5.6.7.8|/api/auth/login")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(time.Minute)
	ok, err = limiter.Allow(ctx, "1.2.3.4|/api/auth/login")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisLimiterAlwaysSetsExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := NewRedisLimiter(client, 2, time.Minute)
	ctx := context.Background()
	ok, err := limiter.Allow(ctx, "fresh")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, time.Minute, mr.TTL("rl:fresh"))

	// a counter stuck without expiry recovers once the window passes
	require.NoError(t, mr.Set("rl:stuck", "9"))
	ok, err = limiter.Allow(ctx, "stuck")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, time.Minute, mr.TTL("rl:stuck"))

	mr.FastForward(time.Minute + time.Second)
	ok, err = limiter.Allow(ctx, "stuck")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	handle := RateLimit(NewRedisLimiter(client, 1, time.Minute))
	for i := 0; i < 3; i++ {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/api/auth/login", nil)
		handle(c)
		require.False(t, c.IsAborted())
	}
}
