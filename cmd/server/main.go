package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/cartapi/internal/api"
	"github.com/jafarshop/cartapi/internal/catalog"
	"github.com/jafarshop/cartapi/internal/config"
	"github.com/jafarshop/cartapi/internal/kv"
	"github.com/jafarshop/cartapi/internal/pricing"
	"github.com/jafarshop/cartapi/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting cart API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("store_backend", cfg.StoreBackend),
	)

	// Initialize the persistent cart store
	var store kv.Store
	if cfg.StoreBackend == "memory" {
		logger.Warn("Using in-memory cart store; carts will not survive a restart")
		store = kv.NewMemory()
	} else {
		db, err := kv.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		store = kv.NewPostgres(db, logger)
	}

	// Catalog resolution and pricing
	client := catalog.NewClient(cfg.Catalog.BaseURL, logger)
	resolver := catalog.NewResolver(client, logger)
	engine := pricing.NewEngine(pricing.DefaultRules(), cfg.Pricing, logger)

	svc := service.NewCartService(store, resolver, engine, cfg.Pricing.Currency, logger)

	// Initialize router
	router := api.NewRouter(cfg, svc, engine, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Catalog prefetch: warm the product cache on startup, then every 10 minutes
	prefetchCtx, stopPrefetch := context.WithCancel(context.Background())
	defer stopPrefetch()
	go resolver.RunPrefetchLoop(prefetchCtx)
	logger.Info("Catalog prefetch started (runs on startup and every 10 minutes)")

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
