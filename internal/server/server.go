package server

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	closer func() error
}

// NewServer wires the router, middleware and handlers. redisClient may
// be nil, in which case login rate limiting is disabled. closer is run
// on shutdown to release backend resources (database pool, redis).
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	entityStore store.Store,
	sessions session.Manager,
	redisClient *redis.Client,
	closer func() error,
) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORS(nil, cfg.Server.Env != "production"))
	router.Use(custommiddleware.Logging(logger))
	router.Use(custommiddleware.ErrorHandling(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	authService := service.NewAuthService(entityStore)

	requireAuth := custommiddleware.Auth(sessions, cfg.Session.CookieName, logger)

	var limit func(http.Handler) http.Handler
	if redisClient != nil {
		limit = custommiddleware.RateLimit(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 10,
			Window:            time.Minute,
			KeyPrefix:         "auth_rate_limit",
		}, logger)
	}

	cookie := transport.SessionCookie{
		Name: cfg.Session.CookieName,
		TTL:  time.Duration(cfg.Session.TTLHours) * time.Hour,
	}

	authHandler := transport.NewAuthHandler(authService, sessions, cookie, logger)
	productHandler := transport.NewProductHandler(entityStore, logger)
	cartHandler := transport.NewCartHandler(entityStore, logger)
	wishlistHandler := transport.NewWishlistHandler(entityStore, logger)
	orderHandler := transport.NewOrderHandler(entityStore, logger)

	authHandler.RegisterRoutes(router, requireAuth, limit)
	productHandler.RegisterRoutes(router, requireAuth)
	cartHandler.RegisterRoutes(router, requireAuth)
	wishlistHandler.RegisterRoutes(router, requireAuth)
	orderHandler.RegisterRoutes(router, requireAuth)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		closer: closer,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.closer != nil {
		if err := s.closer(); err != nil {
			s.logger.Error("Failed to close backend resources", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
