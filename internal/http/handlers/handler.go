package handlers

import (
	"net/http"

	"nexus_game/internal/http/middleware"
	"nexus_game/internal/session"
	"nexus_game/internal/ws"

	"github.com/gin-gonic/gin"
)

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	AllowedOrigin string
}

type Handler struct {
	Sessions *session.Manager
	Hub      *ws.Hub
	cfg      HandlerConfig
}

func NewHandler(sessions *session.Manager, hub *ws.Hub) *Handler {
	return NewHandlerWithConfig(sessions, hub, HandlerConfig{})
}

// NewHandlerWithConfig creates a handler with custom configuration
func NewHandlerWithConfig(sessions *session.Manager, hub *ws.Hub, cfg HandlerConfig) *Handler {
	return &Handler{Sessions: sessions, Hub: hub, cfg: cfg}
}

// getSessionID извлекает session_id из контекста Gin
func getSessionID(c interface{ Get(string) (any, bool) }) (string, bool) {
	v, ok := c.Get(middleware.SessionIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// currentSession resolves the authenticated session or writes the error response.
func (h *Handler) currentSession(c *gin.Context) (*session.Session, bool) {
	id, ok := getSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	sess, err := h.Sessions.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return sess, true
}
