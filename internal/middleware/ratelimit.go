package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"dancestudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Prefix   string
}

// RateLimit allows cfg.Requests per client IP per fixed window, counted in
// Redis. A nil client or a Redis failure lets the request through.
func RateLimit(rdb *redis.Client, cfg RateLimitConfig, log *zap.Logger) gin.HandlerFunc {
	if rdb == nil || cfg.Requests <= 0 || cfg.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit"
	}

	return func(c *gin.Context) {
		now := time.Now()
		window := now.UnixNano() / int64(cfg.Window)
		key := fmt.Sprintf("%s:%s:%s:%d", cfg.Prefix, c.FullPath(), c.ClientIP(), window)

		ctx := c.Request.Context()
		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, cfg.Window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		count := incr.Val()
		remaining := int64(cfg.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Requests) {
			reset := time.Unix(0, (window+1)*int64(cfg.Window))
			retry := int(reset.Sub(now).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			response.AbortWithError(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
