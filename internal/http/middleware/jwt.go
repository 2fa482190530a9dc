package middleware

import (
	"net/http"
	"strings"

	"nexus_game/internal/logger"
	"nexus_game/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionIDKey is the gin context key holding the authenticated session id.
const SessionIDKey = "session_id"

// JWT requires a Bearer session token and stores its session id in the context.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		sessionID, err := service.ParseJWT(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(logger.ContextWithSession(c.Request.Context(), sessionID))
		c.Next()
	}
}
