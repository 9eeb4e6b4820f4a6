package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/casedesk/casedesk/internal/app/config"
	"github.com/casedesk/casedesk/internal/app/handlers"
	appservices "github.com/casedesk/casedesk/internal/app/services"
	"github.com/casedesk/casedesk/pkg/logger"
)

const version = "1.0.0"

type Server struct {
	config   *config.Config
	logger   *logger.Logger
	router   *gin.Engine
	server   *http.Server
	services *appservices.ServiceManager
}

// New creates a new server instance
func New(cfg *config.Config, sm *appservices.ServiceManager, log *logger.Logger) *Server {
	// Configure Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg))
	router.Use(loggingMiddleware(log))

	// Uploads larger than this spill to temp files
	router.MaxMultipartMemory = 8 << 20

	server := &Server{
		config:   cfg,
		logger:   log,
		router:   router,
		services: sm,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// API v1 group
	v1 := s.router.Group("/api/v1")
	{
		// Public routes
		v1.GET("/status", s.systemStatus)

		handlers.RegisterRoutes(v1, s.services)
	}
}

// Health check handler
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": s.config.Environment,
	})
}

// System status handler
func (s *Server) systemStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := s.services.Repositories.HealthCheck(ctx); err != nil {
		dbStatus = "unhealthy"
	}
	cacheStatus := "healthy"
	if err := s.services.CacheService.Ping(ctx); err != nil {
		cacheStatus = "unhealthy"
	}

	status := http.StatusOK
	if dbStatus != "healthy" || cacheStatus != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"database":  dbStatus,
		"cache":     cacheStatus,
		"timestamp": time.Now().UTC(),
		"version":   version,
	})
}

// corsMiddleware configures CORS
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(corsConfig)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Log request details
		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}
