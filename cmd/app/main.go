package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexus_game/internal/catalog"
	"nexus_game/internal/config"
	"nexus_game/internal/domain"
	httpServer "nexus_game/internal/http"
	"nexus_game/internal/http/middleware"
	"nexus_game/internal/logger"
	"nexus_game/internal/service"
	"nexus_game/internal/session"
	"nexus_game/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	challenges := loadCatalog(cfg.ChallengesFile)

	sessions := session.NewManager(challenges, session.ManagerOptions{
		PollInterval: cfg.CountdownPoll,
		IdleTimeout:  cfg.SessionIdle,
	})
	defer sessions.Close()

	hub := ws.NewHub()
	sessions.SetListener(hub.Broadcast)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	sessions.StartCleanup(ctx, time.Minute)

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer middleware.CloseRedis()

	if logger.ParseLevel(cfg.LogLevel) > logger.ParseLevel("debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "*" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, sessions, hub, cfg, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version, "challenges", len(challenges))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func loadCatalog(path string) []domain.Challenge {
	if path == "" {
		return catalog.Default()
	}
	challenges, err := catalog.LoadFile(path)
	if err != nil {
		logger.Fatal("failed to load challenge catalog", "path", path, "error", err)
	}
	return challenges
}
