package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"nexus_game/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and middleware will act as fail-open.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// keep the server available without redis
		logger.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		_ = client.Close()
		return
	}
	redisClient = client
}

// RedisClient returns the limiter's client, nil when rate limiting is off.
func RedisClient() *redis.Client {
	return redisClient
}

// CloseRedis releases the shared client.
func CloseRedis() {
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}

// RedisRateLimit implements a simple fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			// fallback to allowing requests if Redis not configured
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		if !allow(c, key, maxRequests, window, c.FullPath()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// allow counts one hit on key and reports whether it is within the limit.
// Redis errors fail open.
func allow(c *gin.Context, key string, maxRequests int, window time.Duration, endpoint string) bool {
	ctx := c.Request.Context()

	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		c.Header("X-RateLimit-Error", "redis-error")
		return true
	}
	if val == 1 {
		// first increment, set expiry
		redisClient.Expire(ctx, key, window)
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

	if val > int64(maxRequests) {
		RLBlocked.WithLabelValues(endpoint).Inc()
		return false
	}
	RLRequests.WithLabelValues(endpoint).Inc()
	return true
}
