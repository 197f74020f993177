package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"flexreviews/pkg/logger"
	"flexreviews/reviews-service/internal/app/reviews/channel"
	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/infrastructure"
	"flexreviews/reviews-service/internal/app/reviews/infrastructure/places"
	"flexreviews/reviews-service/internal/app/reviews/repository"
)

const (
	GoogleStatusRequiresSetup = "requires_setup"
	googleReviewsNote         = "Google Places API returns maximum 5 most relevant reviews"
	exampleGooglePlaceID      = "ChIJN1t_tDeuEmsRUsoyG83frY4"
)

// GoogleService - необязательный адаптер Google Places. Без ключа API
// клиент не создается, и сервис отдает только документацию по настройке.
type GoogleService struct {
	client infrastructure.PlacesClient
	cache  repository.PlacesCache
}

// NewGoogleService создает сервис; client и cache могут быть nil
func NewGoogleService(client infrastructure.PlacesClient, cache repository.PlacesCache) *GoogleService {
	return &GoogleService{
		client: client,
		cache:  cache,
	}
}

func (s *GoogleService) Configured() bool {
	return s.client != nil
}

// SetupInfo описывает, что нужно для включения интеграции
func (s *GoogleService) SetupInfo() *entity.GoogleSetupInfo {
	return &entity.GoogleSetupInfo{
		Status:  GoogleStatusRequiresSetup,
		Message: "Google Places API integration requires configuration",
		Documentation: entity.GoogleSetupDocument{
			Requirements: []string{
				"Google Cloud Project with billing enabled",
				"Places API enabled in Google Cloud Console",
				"API Key stored in GOOGLE_PLACES_API_KEY environment variable",
				"Place ID for each property (find at: https://developers.google.com/maps/documentation/places/web-service/place-id)",
			},
			Costs: map[string]string{
				"placeDetails": "$17 per 1,000 requests",
				"freeCredit":   "$200 per month",
			},
			Limitations: []string{
				"Maximum 5 reviews per request",
				"Cannot retrieve all reviews",
				"Rate limit: 100 requests per 100 seconds",
				"Reviews may not be real-time",
			},
			RecommendedApproach: "Cache results and sync periodically (daily/weekly)",
		},
		ExamplePlaceID: exampleGooglePlaceID,
	}
}

// PlaceReviews возвращает нормализованные отзывы места. Оценки переведены в шкалу 0-10.
func (s *GoogleService) PlaceReviews(ctx context.Context, placeID string) (*entity.GooglePlaceReviews, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, validationError("Place ID is required. Use ?placeId=YOUR_PLACE_ID")
	}

	place, err := s.cachedPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	normalized := channel.NormalizeGooglePlace(*place)
	reviews := make([]entity.GoogleReview, 0, len(normalized))
	for _, r := range normalized {
		reviews = append(reviews, entity.GoogleReview{
			GuestName:   r.GuestName,
			Rating:      r.Rating,
			ReviewText:  r.ReviewText,
			SubmittedAt: r.SubmittedAt,
			Channel:     r.Channel,
			Categories:  r.Categories.ToMap(),
		})
	}

	return &entity.GooglePlaceReviews{
		PlaceName:    place.Name,
		AvgRating:    channel.GoogleScale(place.Rating),
		TotalReviews: place.UserRatingsTotal,
		Reviews:      reviews,
		Note:         googleReviewsNote,
	}, nil
}

// cachedPlace читает место из кеша, при промахе идет в API и кладет ответ в кеш.
// Ошибки кеша не мешают ответу.
func (s *GoogleService) cachedPlace(ctx context.Context, placeID string) (*entity.GooglePlace, error) {
	if s.cache != nil {
		place, err := s.cache.Get(ctx, placeID)
		if err != nil {
			logger.Warn().Err(err).Str("place_id", placeID).Msg("Places cache read failed")
		}
		if place != nil {
			return place, nil
		}
	}

	place, err := s.FetchPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, place); err != nil {
			logger.Warn().Err(err).Str("place_id", placeID).Msg("Places cache write failed")
		}
	}

	return place, nil
}

// FetchPlace идет в API напрямую, минуя кеш
func (s *GoogleService) FetchPlace(ctx context.Context, placeID string) (*entity.GooglePlace, error) {
	if s.client == nil {
		return nil, &UpstreamError{
			Channel:    string(entity.ChannelGoogle),
			Status:     GoogleStatusRequiresSetup,
			HTTPStatus: http.StatusServiceUnavailable,
			Message:    "Google Places API key is not configured",
		}
	}

	place, err := s.client.FetchPlace(ctx, placeID)
	if err != nil {
		return nil, toUpstreamError(err)
	}
	return place, nil
}

// toUpstreamError: статус API (кроме транспортных сбоев) - ошибка запроса клиента
func toUpstreamError(err error) error {
	var apiErr *places.APIError
	if !errors.As(err, &apiErr) {
		return &UpstreamError{
			Channel:    string(entity.ChannelGoogle),
			Status:     "UNAVAILABLE",
			HTTPStatus: http.StatusBadGateway,
			Message:    err.Error(),
		}
	}

	status := http.StatusBadRequest
	if apiErr.HTTPStatus >= http.StatusInternalServerError {
		status = apiErr.HTTPStatus
	}

	return &UpstreamError{
		Channel:    string(entity.ChannelGoogle),
		Status:     apiErr.Status,
		HTTPStatus: status,
		Message:    apiErr.Message,
	}
}
