package service

import (
	"context"
	"errors"
	"time"

	"flexreviews/pkg/logger"
	"flexreviews/pkg/metrics"
	"flexreviews/reviews-service/internal/app/reviews/channel"
	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/infrastructure"
	"flexreviews/reviews-service/internal/app/reviews/repository"
)

const syncActor = "sync"

// SyncResult - итог одного прогона синхронизации
type SyncResult struct {
	Listings int
	Imported int
	Skipped  int
	Failed   int
}

// SyncService периодически забирает отзывы Google для объектов с place id
// и сохраняет новые. Повторные отзывы отсекаются по внешнему ключу.
type SyncService struct {
	listingRepo   repository.ListingRepository
	reviewRepo    repository.ReviewRepository
	google        *GoogleService
	kafkaProducer infrastructure.MessagePublisher
}

func NewSyncService(
	listingRepo repository.ListingRepository,
	reviewRepo repository.ReviewRepository,
	google *GoogleService,
	kafkaProducer infrastructure.MessagePublisher,
) *SyncService {
	return &SyncService{
		listingRepo:   listingRepo,
		reviewRepo:    reviewRepo,
		google:        google,
		kafkaProducer: kafkaProducer,
	}
}

// SyncGoogleReviews проходит по всем привязанным объектам. Ошибка одного
// объекта не останавливает остальные и учитывается в Failed.
func (s *SyncService) SyncGoogleReviews(ctx context.Context) (result SyncResult, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordSyncRun(err, time.Since(start))
	}()

	if !s.google.Configured() {
		logger.Info().Msg("Google Places is not configured, skipping sync")
		return result, nil
	}

	listings, err := s.listingRepo.FindWithPlaceID(ctx)
	if err != nil {
		return result, storageError("find listings with place id", err)
	}

	for _, listing := range listings {
		result.Listings++

		imported, skipped, err := s.syncListing(ctx, listing)
		result.Imported += imported
		result.Skipped += skipped
		if err != nil {
			result.Failed++
			logger.Error().
				Err(err).
				Int64("listing_id", listing.ID).
				Str("place_id", listing.GooglePlaceID).
				Msg("Failed to sync Google reviews")
		}
	}

	logger.Info().
		Int("listings", result.Listings).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("duration", time.Since(start)).
		Msg("Google reviews sync finished")

	return result, nil
}

func (s *SyncService) syncListing(ctx context.Context, listing entity.Listing) (imported, skipped int, err error) {
	place, err := s.google.FetchPlace(ctx, listing.GooglePlaceID)
	if err != nil {
		return 0, 0, err
	}

	for _, r := range place.Reviews {
		review := channel.NormalizeGoogle(listing.GooglePlaceID, listing.Name, r)
		review.ListingID = listing.ID

		if err := s.reviewRepo.Insert(ctx, &review); err != nil {
			if errors.Is(err, repository.ErrDuplicateReview) {
				skipped++
				continue
			}
			return imported, skipped, storageError("insert google review", err)
		}

		imported++
		metrics.RecordReviewIngested(string(review.Channel), review.Rating)
		publishReviewEvent(ctx, s.kafkaProducer, newReviewEvent(entity.EventReviewIngested, &review, syncActor))
	}

	return imported, skipped, nil
}
