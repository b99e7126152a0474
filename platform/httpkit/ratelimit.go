package httpkit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"lead_crm_backend/platform/apperr"
	"lead_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const msgRateLimited = "rate limit exceeded"

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit returns a middleware that limits requests per client IP.
// A limiter error lets the request through.
func RateLimit(limiter Limiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			if log != nil {
				log.Warn("rate limiter unavailable", "error", err.Error())
			}
			c.Next()
			return
		}
		if !allowed {
			if log != nil {
				log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.Abort()
			HandleError(c, apperr.TooManyRequests(msgRateLimited), log)
			return
		}
		c.Next()
	}
}

// IPRateLimiter keeps a token bucket per key in process memory.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a new in-memory per-key limiter.
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{rate: r, burst: burst}
}

func (i *IPRateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := i.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := i.limiters.LoadOrStore(key, rate.NewLimiter(i.rate, i.burst))
	return limiter.(*rate.Limiter)
}

// Allow implements Limiter.
func (i *IPRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	return i.getLimiter(key).Allow(), nil
}

// RedisRateLimiter is a fixed-window counter shared by every API instance.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisRateLimiter allows limit requests per key in each window.
func NewRedisRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow implements Limiter.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := r.now().UnixNano() / int64(r.window)
	redisKey := r.prefix + ":" + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(r.limit), nil
}

// NewAuthRateLimiter returns the limiter for authentication endpoints:
// Redis-backed when a client is given, in-memory otherwise.
func NewAuthRateLimiter(client *redis.Client, perMinute int) Limiter {
	if perMinute < 1 {
		perMinute = 10
	}
	if client != nil {
		return NewRedisRateLimiter(client, "ratelimit:auth", perMinute, time.Minute)
	}
	return NewIPRateLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
}
