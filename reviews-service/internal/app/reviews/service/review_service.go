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
	"flexreviews/reviews-service/internal/app/reviews/query"
	"flexreviews/reviews-service/internal/app/reviews/repository"
)

// ReviewService обрабатывает бизнес-логику отзывов:
// выборку с фильтрами, модерацию и импорт из внешних каналов
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	listingRepo   repository.ListingRepository
	kafkaProducer infrastructure.MessagePublisher
	now           func() time.Time
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей.
// kafkaProducer может быть nil, тогда события не публикуются.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	listingRepo repository.ListingRepository,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		listingRepo:   listingRepo,
		kafkaProducer: kafkaProducer,
		now:           time.Now,
	}
}

// ListReviews возвращает страницу отзывов, отфильтрованную по параметрам запроса
func (s *ReviewService) ListReviews(ctx context.Context, raw query.RawCriteria) (*entity.ReviewPage, error) {
	criteria, err := query.ParseCriteria(raw)
	if err != nil {
		return nil, validationError("%v", err)
	}

	q := query.Build(criteria)

	reviews, err := s.reviewRepo.Find(ctx, q)
	if err != nil {
		return nil, storageError("find reviews", err)
	}

	total, err := s.reviewRepo.Count(ctx, q.Predicate)
	if err != nil {
		return nil, storageError("count reviews", err)
	}

	if reviews == nil {
		reviews = []entity.Review{}
	}

	return &entity.ReviewPage{
		Reviews: reviews,
		Pagination: entity.Pagination{
			Page:       q.Page(),
			Limit:      q.Limit,
			Total:      total,
			TotalPages: query.TotalPages(total, q.Limit),
		},
	}, nil
}

// SetApproval переключает публикацию отзыва. Повторный вызов с тем же
// значением не ошибка и оставляет отзыв в том же состоянии.
func (s *ReviewService) SetApproval(ctx context.Context, actorID string, reviewID int64, approved bool) (*entity.Review, error) {
	if reviewID <= 0 {
		return nil, validationError("reviewId must be positive")
	}

	review, err := s.reviewRepo.Update(ctx, reviewID, entity.ReviewPatch{IsApproved: &approved})
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, storageError("update review", err)
	}

	metrics.RecordApprovalChange(approved)
	logger.Info().
		Int64("review_id", review.ID).
		Bool("is_approved", review.IsApproved).
		Str("actor_id", actorID).
		Msg("Review approval changed")

	publishReviewEvent(ctx, s.kafkaProducer, newReviewEvent(entity.EventReviewApprovalChanged, review, actorID))

	return review, nil
}

// HostawayView отдает отзывы канала Hostaway в формате Hostaway API
func (s *ReviewService) HostawayView(ctx context.Context, listingID string, status string) (*entity.HostawayResponse, error) {
	criteria, err := query.ParseCriteria(query.RawCriteria{ListingID: listingID})
	if err != nil {
		return nil, validationError("%v", err)
	}
	if status == "" {
		status = channel.HostawayStatusPublic
	}

	predicate := query.Build(criteria).Predicate
	predicate.Channel = entity.ChannelHostaway

	reviews, err := s.reviewRepo.Find(ctx, query.Query{Predicate: predicate, OrderBy: query.OrderBySubmittedDesc})
	if err != nil {
		return nil, storageError("find hostaway reviews", err)
	}

	result := make([]entity.HostawayReview, 0, len(reviews))
	for _, r := range reviews {
		result = append(result, channel.ToHostaway(r, status))
	}

	return &entity.HostawayResponse{Status: entity.StatusSuccess, Result: result}, nil
}

// ImportHostaway нормализует отзывы из ответа Hostaway API и сохраняет новые.
// Объект ищется по имени; отзывы неизвестных объектов и уже импортированные пропускаются.
func (s *ReviewService) ImportHostaway(ctx context.Context, actorID string, payload *entity.HostawayResponse) (*entity.ImportResult, error) {
	result := &entity.ImportResult{Received: len(payload.Result)}
	unmatched := make(map[string]bool)
	listings := make(map[string]*entity.Listing)

	for _, raw := range payload.Result {
		review := channel.NormalizeHostaway(raw)
		if review.SubmittedAt.IsZero() {
			review.SubmittedAt = s.now().UTC()
		}

		listing, ok := listings[review.ListingName]
		if !ok {
			found, err := s.listingRepo.GetByName(ctx, review.ListingName)
			if err != nil && !errors.Is(err, repository.ErrListingNotFound) {
				return nil, storageError("resolve listing", err)
			}
			listing = found
			listings[review.ListingName] = found
		}

		if listing == nil {
			result.Skipped++
			if !unmatched[review.ListingName] {
				unmatched[review.ListingName] = true
				result.Unmatched = append(result.Unmatched, review.ListingName)
			}
			continue
		}

		review.ListingID = listing.ID
		review.ListingName = listing.Name

		if err := s.reviewRepo.Insert(ctx, &review); err != nil {
			if errors.Is(err, repository.ErrDuplicateReview) {
				result.Skipped++
				continue
			}
			return nil, storageError("insert review", err)
		}

		result.Imported++
		metrics.RecordReviewIngested(string(review.Channel), review.Rating)
		publishReviewEvent(ctx, s.kafkaProducer, newReviewEvent(entity.EventReviewIngested, &review, actorID))
	}

	logger.Info().
		Int("received", result.Received).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Hostaway import finished")

	return result, nil
}
