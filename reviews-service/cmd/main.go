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
	"flexreviews/reviews-service/internal/app/reviews/repository"
	"flexreviews/reviews-service/internal/app/reviews/service"
	"flexreviews/reviews-service/internal/app/reviews/util"
)

const serviceName = "reviews-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	initLogger(cfg.Log)

	ctx := context.Background()

	stores, err := database.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to storage")
	}
	defer stores.Close()

	if err := stores.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate schema")
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	// nil интерфейс, а не nil указатель: сервисы проверяют publisher == nil
	var publisher infrastructure.MessagePublisher
	if cfg.Kafka.Enabled() {
		kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaProducer.Close()
		publisher = kafkaProducer
		logger.Info().
			Str("topic", cfg.Kafka.Topic).
			Strs("brokers", cfg.Kafka.Brokers).
			Msg("Initialized Kafka producer")
	} else {
		logger.Info().Msg("KAFKA_BROKERS is empty, review events are not published")
	}

	placesClient, err := newPlacesClient(cfg.Google)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Google Places client")
	}

	jwtManager := util.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)

	reviewService := service.NewReviewService(stores.Reviews, stores.Listings, publisher)
	listingService := service.NewListingService(stores.Listings, stores.Reviews)
	googleService := service.NewGoogleService(placesClient, repository.NewRedisPlacesCache(redisClient, cfg.Google.CacheTTL))
	authService := service.NewAuthService(stores.Users, repository.NewRedisTokenBlacklist(redisClient), jwtManager)

	checks := map[string]handler.HealthCheck{
		"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}
	for name, check := range stores.Checks {
		checks[name] = check
	}

	router := handler.SetupRoutes(handler.Handlers{
		Reviews:  handler.NewReviewHandler(reviewService),
		Listings: handler.NewListingHandler(listingService),
		Auth:     handler.NewAuthHandler(authService, cfg.CORS.SecureCookie),
		Google:   handler.NewGoogleHandler(googleService),
		Health:   handler.NewHealthHandler(serviceName, checks),
	}, handler.NewAuthMiddleware(authService), cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Bool("google_places", googleService.Configured()).
			Msg("Starting Reviews Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Reviews Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Reviews Service stopped gracefully")
}

func initLogger(cfg config.LogConfig) {
	logger.Init(serviceName, cfg.Level)

	if cfg.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.LogstashAddr, serviceName, cfg.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.LogstashAddr).Msg("Connected to Logstash")
		}
	}
}

// newPlacesClient возвращает nil интерфейс, если ключ API не задан
func newPlacesClient(cfg config.GoogleConfig) (infrastructure.PlacesClient, error) {
	if !cfg.Enabled() {
		logger.Info().Msg("GOOGLE_PLACES_API_KEY is empty, Google reviews return setup documentation")
		return nil, nil
	}

	client, err := places.NewGoogleClient(places.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		RateLimit: cfg.RateLimit,
		Timeout:   cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
