// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/board"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/item"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	redisdb "github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/routes"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Health(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	gin        *gin.Engine
	httpServer *http.Server
	db         *postgres.DB
	redis      *redisdb.Client
	publisher  order.Publisher
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance and wires its services
func NewServer(cfg *config.Config, db *postgres.DB, redisClient *redisdb.Client, publisher order.Publisher, logger *logrus.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		publisher: publisher,
		gin:       gin.New(),
		startedAt: time.Now(),
	}

	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logger.WithError(err).Warn("Invalid trusted proxies, trusting none")
		_ = s.gin.SetTrustedProxies(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// Handler returns the root handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"port":        s.config.Server.Port,
		"environment": s.config.App.Environment,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders(s.config.App.Name))
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.redis.GetClient(), s.logger))
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxRequestBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, s.buildHandlers(), auth.NewJWTManager(s.config))

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"auth":   "/api/v1/auth",
					"items":  "/api/v1/items",
					"cart":   "/api/v1/cart",
					"orders": "/api/v1/orders",
					"admin":  "/api/v1/admin",
				},
			})
		})
	}
}

// buildHandlers wires services from the shared connections
func (s *Server) buildHandlers() *routes.Handlers {
	db := s.db.GetDB()
	rdb := s.redis.GetClient()

	handoffs := checkout.NewService(rdb, s.config, s.logger)
	wishes := wishlist.NewService(db, s.logger)
	items := item.NewService(db, wishes, handoffs, s.config, s.logger)
	boards := board.NewService(db, items, s.logger)
	carts := cart.NewService(db, rdb, items, handoffs, s.config, s.logger)
	orders := order.NewService(db, handoffs, s.publisher, pdf.NewService(s.config), items, s.logger)
	users := user.NewService(db, s.config, s.logger)

	return &routes.Handlers{
		Auth:     handlers.NewAuthHandler(users),
		Item:     handlers.NewItemHandler(items),
		Wishlist: handlers.NewWishlistHandler(wishes, items),
		Board:    handlers.NewBoardHandler(boards),
		Cart:     handlers.NewCartHandler(carts),
		Order:    handlers.NewOrderHandler(orders),
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]Pinger{"database": s.db, "redis": s.redis}
	for name, p := range checks {
		if err := p.Health(ctx); err != nil {
			s.logger.WithError(err).WithField("check", name).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  name + " ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).String(),
	})
}
