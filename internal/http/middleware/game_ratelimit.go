package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GameRateLimit limits gameplay requests per session (not per IP) using Redis.
// Requires the JWT middleware to run first.
func GameRateLimit(maxMoves int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString(SessionIDKey)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if redisClient == nil {
			// Redis not configured, fail-open
			c.Next()
			return
		}

		key := "game_rl:" + sessionID + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		if !allow(c, key, maxMoves, window, "game:"+c.FullPath()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "game rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}
		c.Next()
	}
}
