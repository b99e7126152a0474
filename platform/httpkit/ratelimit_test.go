package httpkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lead_crm_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRateLimiterFixedWindow(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := NewRedisRateLimiter(client, "test", 2, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok, "other clients have their own counter")

	now = now.Add(time.Minute)
	ok, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "a new window resets the counter")

	assert.NotEmpty(t, mr.Keys())
	for _, key := range mr.Keys() {
		assert.Greater(t, mr.TTL(key), time.Duration(0))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(NewIPRateLimiter(rate.Every(time.Hour), 1), logger.Discard()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, second.Body.String())
}

func TestRateLimitFailsOpenWhenRedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(NewRedisRateLimiter(client, "test", 1, time.Minute), logger.Discard()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNewAuthRateLimiterSelectsBackend(t *testing.T) {
	_, client := newTestRedis(t)
	assert.IsType(t, &RedisRateLimiter{}, NewAuthRateLimiter(client, 5))
	assert.IsType(t, &IPRateLimiter{}, NewAuthRateLimiter(nil, 5))
}
