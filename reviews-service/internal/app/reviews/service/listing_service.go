package service

import (
	"context"
	"errors"

	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/query"
	"flexreviews/reviews-service/internal/app/reviews/repository"
	"flexreviews/reviews-service/internal/app/reviews/stats"
)

// ListingService собирает объекты вместе с вычисленной статистикой отзывов.
// Статистика каждый раз считается заново по хранилищу, кеша нет.
type ListingService struct {
	listingRepo repository.ListingRepository
	reviewRepo  repository.ReviewRepository
}

func NewListingService(listingRepo repository.ListingRepository, reviewRepo repository.ReviewRepository) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		reviewRepo:  reviewRepo,
	}
}

// reviewsOf возвращает отзывы объекта, новые первыми
func (s *ListingService) reviewsOf(ctx context.Context, predicate query.Predicate) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.Find(ctx, query.Query{Predicate: predicate, OrderBy: query.OrderBySubmittedDesc})
	if err != nil {
		return nil, storageError("find listing reviews", err)
	}
	if reviews == nil {
		reviews = []entity.Review{}
	}
	return reviews, nil
}

func (s *ListingService) enrichAll(ctx context.Context, includeReviews bool) ([]entity.EnrichedListing, error) {
	listings, err := s.listingRepo.FindAll(ctx)
	if err != nil {
		return nil, storageError("find listings", err)
	}

	enriched := make([]entity.EnrichedListing, 0, len(listings))
	for _, listing := range listings {
		reviews, err := s.reviewsOf(ctx, query.ForListing(listing.ID))
		if err != nil {
			return nil, err
		}

		// Дашборд показывает статистику по всем отзывам, включая неодобренные
		item := stats.Enrich(listing, reviews)
		if includeReviews {
			item.Reviews = reviews
		}
		enriched = append(enriched, item)
	}

	return enriched, nil
}

// ListingsWithStats - все объекты по имени со статистикой по всем отзывам
func (s *ListingService) ListingsWithStats(ctx context.Context, includeReviews bool) ([]entity.EnrichedListing, error) {
	return s.enrichAll(ctx, includeReviews)
}

// PropertyBySlug - публичная страница объекта: только одобренные отзывы,
// и статистика считается тоже только по ним
func (s *ListingService) PropertyBySlug(ctx context.Context, slug string) (*entity.EnrichedListing, error) {
	listing, err := s.listingRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, storageError("get listing", err)
	}

	approved := true
	predicate := query.ForListing(listing.ID)
	predicate.Approved = &approved

	reviews, err := s.reviewsOf(ctx, predicate)
	if err != nil {
		return nil, err
	}

	enriched := stats.Enrich(*listing, reviews)
	enriched.Reviews = reviews
	return &enriched, nil
}

// DashboardOverview - сводка по всем объектам с сортировкой для дашборда
func (s *ListingService) DashboardOverview(ctx context.Context, sortBy string) (*entity.DashboardOverview, error) {
	enriched, err := s.enrichAll(ctx, false)
	if err != nil {
		return nil, err
	}

	stats.SortListings(enriched, sortBy)
	overview := stats.Overview(enriched)
	return &overview, nil
}

// ListingDashboard - детальная страница объекта в дашборде с необязательными фильтрами
func (s *ListingService) ListingDashboard(ctx context.Context, listingID int64, ch string, approved *bool) (*entity.ListingDashboard, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, storageError("get listing", err)
	}

	predicate := query.ForListing(listing.ID)
	predicate.Channel = entity.Channel(ch)
	predicate.Approved = approved

	reviews, err := s.reviewsOf(ctx, predicate)
	if err != nil {
		return nil, err
	}

	enriched := stats.Enrich(*listing, reviews)
	enriched.Reviews = reviews

	return &entity.ListingDashboard{
		EnrichedListing: enriched,
		Channels:        stats.Channels(reviews),
		Categories:      stats.CategoryScores(reviews),
		Trend:           stats.MonthlyTrend(reviews),
	}, nil
}
