// Package middleware provides HTTP middleware.
package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/response"
)

// RateLimitConfig configures the fixed-window limiter.
type RateLimitConfig struct {
	Limit  int           // max requests per window
	Window time.Duration // window length
	Prefix string        // redis key prefix
}

// DefaultRateLimitConfig returns a default configuration.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Limit:  120,
		Window: time.Minute,
		Prefix: "ratelimit",
	}
}

// RateLimit limits requests per key using a redis counter.
// keyFunc derives the limit key from the request; an empty key skips limiting.
func RateLimit(client *redis.Client, config *RateLimitConfig, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	return func(c *gin.Context) {
		key := keyFunc(c)
		if key == "" {
			c.Next()
			return
		}

		redisKey := fmt.Sprintf("%s:%s", config.Prefix, key)
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, redisKey).Result()
		if err != nil {
			// redis being down must not take the API with it
			c.Next()
			return
		}

		if count == 1 {
			client.Expire(ctx, redisKey, config.Window)
		}

		remaining := config.Limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > config.Limit {
			ttl, err := client.TTL(ctx, redisKey).Result()
			if err == nil && ttl > 0 {
				c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			}
			response.TooManyRequests(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPRateLimit limits requests per client IP.
func IPRateLimit(client *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	config := &RateLimitConfig{
		Limit:  limit,
		Window: window,
		Prefix: "ratelimit:ip",
	}
	return RateLimit(client, config, func(c *gin.Context) string {
		return c.ClientIP()
	})
}
