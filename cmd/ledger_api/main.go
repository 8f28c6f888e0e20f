package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomycastelli/sistema-maika/internal/config"
	"github.com/tomycastelli/sistema-maika/internal/data/cached"
	"github.com/tomycastelli/sistema-maika/internal/data/postgres"
	"github.com/tomycastelli/sistema-maika/internal/ledger_api"
	"github.com/tomycastelli/sistema-maika/internal/ledger_api/service"
	"github.com/tomycastelli/sistema-maika/internal/logger"
	"github.com/tomycastelli/sistema-maika/internal/platform/cache"
	"github.com/tomycastelli/sistema-maika/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize the ledger store with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize the cache backend. An unreachable Redis degrades every
	// lookup to a miss, it never blocks startup.
	redisStore := cache.NewRedisStore(appCtx, log, &cfg.Redis)
	cacheWriter, err := cache.NewAsyncWriter(redisStore, cfg.WorkerPool.Size, log)
	if err != nil {
		log.Error("Failed to initialize cache writer pool", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	movementRepo := postgres.NewMovementRepository(log, postgresDB)
	balanceRepo := postgres.NewBalanceRepository(log, postgresDB)
	linkRepo := postgres.NewLinkRepository(log, postgresDB)

	// Catalog readers sit behind a short-lived cache; the closure and
	// the authorization gate refetch them per request otherwise.
	tagReader := cached.NewTagReader(postgres.NewTagRepository(log, postgresDB), cacheWriter, cfg.Cache.CatalogTTL, log)
	entityReader := cached.NewEntityReader(postgres.NewEntityRepository(log, postgresDB), cacheWriter, cfg.Cache.CatalogTTL, log)
	permissionReader := cached.NewPermissionReader(postgres.NewPermissionRepository(log, postgresDB), cacheWriter, cfg.Cache.CatalogTTL, log)

	// Initialize services
	gate := service.NewGate(linkRepo, permissionReader, tagReader, entityReader, log)
	movementService := service.NewMovementService(movementRepo, balanceRepo, tagReader, gate, cacheWriter, cfg.Cache.BalanceTTL, log)

	// Initialize REST server
	server := ledger_api.NewServer(log, cfg, movementService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no request races the closing pools
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Drain in-flight cache writes, then close the cache connection
	cacheWriter.Release()
	if err = redisStore.Close(); err != nil {
		log.Error("Error closing Redis connection", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
