package server

import (
	"fmt"
	"net/http"
	"time"

	"product-catalog/internal/cart"
	"product-catalog/internal/config"
	"product-catalog/internal/database"
	custommiddleware "product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"
	"product-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	gw     *database.Gateway
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, gw *database.Gateway) *Server {
	server := &Server{
		config: cfg,
		logger: logger,
		gw:     gw,
	}

	if cfg.RateLimit.Enabled {
		server.redis = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	server.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      server.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(s.logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(s.logger))
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(s.config.CORS.AllowedOrigins))

	if s.redis != nil {
		router.Use(custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: s.config.RateLimit.Requests,
			Window:            s.config.RateLimit.Window,
			KeyPrefix:         "ratelimit:catalog",
		}, s.logger))
	}

	router.NotFound(custommiddleware.NotFoundHandler)
	router.MethodNotAllowed(custommiddleware.MethodNotAllowedHandler)

	router.Get("/health", s.healthHandler)

	// Initialize repositories
	productRepo := repository.NewProductRepository(s.gw)

	// Initialize services
	cartClient := cart.NewClient(s.config.Cart.BaseURL, s.config.Cart.Timeout, s.logger)
	catalogService := service.NewCatalogService(productRepo, cartClient, s.logger)

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogService, s.logger)

	// Register routes
	productHandler.RegisterRoutes(router)

	return router
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.gw.Health(r.Context())

	status := http.StatusOK
	if health["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	custommiddleware.RespondWithJSON(w, status, health)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.gw != nil {
		if err := s.gw.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
