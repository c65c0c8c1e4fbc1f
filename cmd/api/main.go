package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspire/backend/internal/config"
	httpDelivery "github.com/shopspire/backend/internal/delivery/http"
	"github.com/shopspire/backend/internal/delivery/events"
	"github.com/shopspire/backend/internal/delivery/http/handler"
	"github.com/shopspire/backend/internal/pkg/cache"
	"github.com/shopspire/backend/internal/pkg/database"
	"github.com/shopspire/backend/internal/pkg/logger"
	cacheRepo "github.com/shopspire/backend/internal/repository/cache"
	"github.com/shopspire/backend/internal/repository/postgres"
	"github.com/shopspire/backend/internal/usecase/product"
	"github.com/shopspire/backend/internal/usecase/review"

	_ "github.com/shopspire/backend/docs"
)

// @title Shopspire Backend API
// @version 1.0
// @description E-commerce backend exposing product catalog and review management endpoints.

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name Products
// @tag.description Catalog management endpoints

// @tag.name Reviews
// @tag.description Review management endpoints

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting Shopspire API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	streamConfig := events.NewStreamConfig(publisher.JetStream(), appLogger)
	if err := streamConfig.EnsureStream(); err != nil {
		appLogger.Fatal("Failed to ensure JetStream stream", err)
	}

	productRepo := postgres.NewProductRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	redisCache := cacheRepo.NewRedisCache(redisClient, cfg.Cache.ReviewsListTTL)

	productService := product.NewService(productRepo, reviewRepo, redisCache, appLogger)
	reviewService := review.NewService(reviewRepo, redisCache, publisher, appLogger)

	productHandler := handler.NewProductHandler(productService, appLogger)
	reviewHandler := handler.NewReviewHandler(reviewService, appLogger)

	router := httpDelivery.NewRouter(productHandler, reviewHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
