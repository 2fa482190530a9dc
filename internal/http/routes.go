package http

import (
	"time"

	"nexus_game/internal/config"
	"nexus_game/internal/http/handlers"
	"nexus_game/internal/http/middleware"
	"nexus_game/internal/session"
	"nexus_game/internal/ws"

	"github.com/gin-gonic/gin"
)

// session creation stays limited per IP even without Redis
const (
	createRateLimit  = 20
	createRateWindow = time.Minute
)

var sessionOps = []string{
	session.OpStart,
	session.OpSelect,
	session.OpComplete,
	session.OpFail,
	session.OpMenu,
	session.OpToggle,
	session.OpReset,
}

func RegisterRoutes(r *gin.Engine, sessions *session.Manager, hub *ws.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandlerWithConfig(sessions, hub, handlers.HandlerConfig{
		AllowedOrigin: cfg.AllowedOrigin,
	})
	healthHandler := handlers.NewHealthHandler(middleware.RedisClient(), sessions, version)

	apiRateLimit := cfg.APIRateLimit
	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, apiRateLimit, apiRateWindow)

	// WebSocket push channel
	r.GET("/ws", h.WS())
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, gameRateLimit int, gameRateWindow time.Duration) {
	createLimiter := middleware.NewMemoryLimiter(createRateLimit, createRateWindow)

	api.POST("/sessions", createLimiter.Middleware(), h.CreateSession)
	api.GET("/challenges", h.Challenges)

	auth := api.Group("/session")
	auth.Use(middleware.JWT())
	{
		auth.GET("", h.GetSession)
		auth.DELETE("", h.DeleteSession)
		for _, op := range sessionOps {
			auth.POST("/"+op, h.Op(op))
		}
		// Game rate limiter middleware (per session, not per IP)
		auth.POST("/move", middleware.GameRateLimit(gameRateLimit, gameRateWindow), h.Move)
	}
}
