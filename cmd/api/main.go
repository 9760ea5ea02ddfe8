package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/store"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 30 seconds to finish in-flight requests
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store_backend", cfg.Store.Backend),
	)

	ctx := context.Background()

	// Entity store: in-memory by default, Postgres when configured
	var (
		entityStore store.Store
		closeDB     func() error
	)
	switch cfg.Store.Backend {
	case "postgres":
		dbService, err := database.New(cfg.Database)
		if err != nil {
			log.Fatal("Failed to open database", zap.Error(err))
		}
		log.Info("Database health check", zap.Any("health", dbService.Health(ctx)))

		if err := database.RunMigrations(dbService.DB(), "migrations", log); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}

		entityStore = store.NewPostgresStore(dbService.DB())
		closeDB = dbService.Close
	default:
		memStore := store.NewMemoryStore()
		if err := store.Seed(ctx, memStore); err != nil {
			log.Fatal("Failed to seed sample catalog", zap.Error(err))
		}
		entityStore = memStore
	}

	// Sessions: Redis when configured, process memory otherwise
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	var (
		sessions    session.Manager
		redisClient *redis.Client
	)
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		sessions = session.NewRedisManager(redisClient, sessionTTL)
		log.Info("Using redis sessions", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessions = session.NewMemoryManager(sessionTTL)
	}

	closer := func() error {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close redis client", zap.Error(err))
			}
		}
		if closeDB != nil {
			return closeDB()
		}
		return nil
	}

	srv := server.NewServer(cfg, log, entityStore, sessions, redisClient, closer)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
