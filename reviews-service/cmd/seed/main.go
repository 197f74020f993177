package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"flexreviews/pkg/logger"
	"flexreviews/reviews-service/internal/app/reviews/config"
	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/infrastructure/database"
	"flexreviews/reviews-service/internal/app/reviews/repository"
	"flexreviews/reviews-service/internal/app/reviews/seed"
	"flexreviews/reviews-service/internal/app/reviews/util"

	"github.com/google/uuid"
)

func main() {
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "random seed for generated reviews")
	count := flag.Int("reviews", seed.DefaultReviewCount, "number of reviews to generate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init("reviews-seed", cfg.Log.Level)

	ctx := context.Background()

	stores, err := database.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to storage")
	}
	defer stores.Close()

	if err := stores.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate schema")
	}

	if err := seedManager(ctx, stores.Users); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create manager")
	}

	listings, err := seedListings(ctx, stores.Listings)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create listings")
	}

	created, skipped := 0, 0
	for _, review := range seed.NewGenerator(*seedValue, time.Now()).Reviews(listings, *count) {
		if err := stores.Reviews.Insert(ctx, &review); err != nil {
			if errors.Is(err, repository.ErrDuplicateReview) {
				skipped++
				continue
			}
			logger.Fatal().Err(err).Msg("Failed to insert review")
		}
		created++
	}

	logger.Info().
		Int64("seed", *seedValue).
		Int("created", created).
		Int("skipped", skipped).
		Msg("Seed completed successfully")
}

func seedManager(ctx context.Context, users repository.UserRepository) error {
	hash, err := util.HashPassword(seed.ManagerPassword)
	if err != nil {
		return err
	}

	manager := &entity.User{
		ID:           uuid.New(),
		Email:        seed.ManagerEmail,
		PasswordHash: hash,
		Name:         seed.ManagerName,
		Role:         entity.RoleManager,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, manager); err != nil {
		return err
	}

	logger.Info().Str("email", manager.Email).Msg("Manager user ready")
	return nil
}

func seedListings(ctx context.Context, listings repository.ListingRepository) ([]entity.Listing, error) {
	items := seed.Listings()
	for i := range items {
		if err := listings.Upsert(ctx, &items[i]); err != nil {
			return nil, err
		}
		logger.Info().Int64("id", items[i].ID).Str("name", items[i].Name).Msg("Listing ready")
	}
	return items, nil
}
