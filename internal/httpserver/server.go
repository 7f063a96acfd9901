package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventgrove/eventgrove/internal/auth"
	"github.com/eventgrove/eventgrove/internal/config"
	"github.com/eventgrove/eventgrove/internal/handlers"
	"github.com/eventgrove/eventgrove/internal/store"
)

// NewRouter wires public endpoints and the authenticated API.
// Public: /, /health, /ready, /api/auth/*
// Authenticated: /api/events...
func NewRouter(cfg config.Config, st store.Store, tm *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to the Eventgrove API")
	})

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the store dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	api := r.Group("/api")
	handlers.RegisterAuthRoutes(api.Group("/auth"), st, tm, cfg.Auth.BcryptCost)

	protected := api.Group("/")
	protected.Use(auth.Middleware(tm))
	handlers.RegisterEventRoutes(protected, st)

	return r
}
