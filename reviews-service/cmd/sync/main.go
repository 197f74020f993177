package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flexreviews/pkg/logger"
	"flexreviews/reviews-service/internal/app/reviews/config"
	"flexreviews/reviews-service/internal/app/reviews/handler"
	"flexreviews/reviews-service/internal/app/reviews/infrastructure"
	"flexreviews/reviews-service/internal/app/reviews/infrastructure/database"
	"flexreviews/reviews-service/internal/app/reviews/infrastructure/messaging"
	"flexreviews/reviews-service/internal/app/reviews/infrastructure/places"
	"flexreviews/reviews-service/internal/app/reviews/processor"
	"flexreviews/reviews-service/internal/app/reviews/repository"
	"flexreviews/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "reviews-sync"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(serviceName, cfg.Log.Level)

	if !cfg.Google.Enabled() {
		logger.Fatal().Msg("GOOGLE_PLACES_API_KEY is required for the sync worker")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := database.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to storage")
	}
	defer stores.Close()

	redisClient, err := database.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	client, err := places.NewGoogleClient(places.Config{
		APIKey:    cfg.Google.APIKey,
		BaseURL:   cfg.Google.BaseURL,
		RateLimit: cfg.Google.RateLimit,
		Timeout:   cfg.Google.Timeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Google Places client")
	}

	var publisher infrastructure.MessagePublisher
	if cfg.Kafka.Enabled() {
		kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaProducer.Close()
		publisher = kafkaProducer
	}

	googleService := service.NewGoogleService(client, repository.NewRedisPlacesCache(redisClient, cfg.Google.CacheTTL))
	syncService := service.NewSyncService(stores.Listings, stores.Reviews, googleService, publisher)

	cronScheduler := processor.NewCronScheduler(syncService)
	if err := cronScheduler.Start(ctx, cfg.Sync.Schedule); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.Sync.Schedule).Msg("Failed to start cron scheduler")
	}
	defer cronScheduler.Stop()

	checks := map[string]handler.HealthCheck{
		"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}
	for name, check := range stores.Checks {
		checks[name] = check
	}
	health := handler.NewHealthHandler(serviceName, checks)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", health.Health)
	router.GET("/health/readiness", health.Readiness)
	router.GET("/health/liveness", health.Liveness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer := &http.Server{
		Addr:    ":" + cfg.Sync.HealthPort,
		Handler: router,
	}

	go func() {
		logger.Info().Str("address", httpServer.Addr).Msg("Starting healthcheck HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	logger.Info().Str("schedule", cfg.Sync.Schedule).Msg("Reviews sync worker is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down reviews sync worker...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("Reviews sync worker stopped gracefully")
}
