package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flexreviews/pkg/metrics"
	"flexreviews/reviews-service/internal/app/reviews/entity"

	"googlemaps.github.io/maps"
)

const channelName = "Google"

// Поля Place Details, которые нужны для отзывов
var detailsFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMask("name"),
	maps.PlaceDetailsFieldMask("rating"),
	maps.PlaceDetailsFieldMask("user_ratings_total"),
	maps.PlaceDetailsFieldMask("reviews"),
}

// APIError - неуспешный ответ Google Places с кодом статуса API
type APIError struct {
	Status     string
	HTTPStatus int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google places: %s: %s", e.Status, e.Message)
}

type Config struct {
	APIKey    string
	BaseURL   string
	RateLimit int
	Timeout   time.Duration
}

// GoogleClient - адаптер Place Details API. Отдает не больше пяти отзывов
// на место, это ограничение самого API.
type GoogleClient struct {
	client  *maps.Client
	timeout time.Duration
}

func NewGoogleClient(cfg Config) (*GoogleClient, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, maps.WithRateLimit(cfg.RateLimit))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google maps client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GoogleClient{client: client, timeout: timeout}, nil
}

// FetchPlace получает место и его отзывы. Оценки возвращаются в шкале Google (1-5).
func (c *GoogleClient) FetchPlace(ctx context.Context, placeID string) (*entity.GooglePlace, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  detailsFields,
	})
	if err != nil {
		apiErr := toAPIError(err)
		metrics.RecordChannelFetch(channelName, apiErr.Status)
		return nil, apiErr
	}
	metrics.RecordChannelFetch(channelName, "OK")

	place := &entity.GooglePlace{
		PlaceID:          placeID,
		Name:             result.Name,
		Rating:           float64(result.Rating),
		UserRatingsTotal: result.UserRatingsTotal,
		Reviews:          make([]entity.GooglePlaceReview, 0, len(result.Reviews)),
	}
	for _, r := range result.Reviews {
		place.Reviews = append(place.Reviews, entity.GooglePlaceReview{
			AuthorName: r.AuthorName,
			Rating:     float64(r.Rating),
			Text:       r.Text,
			Time:       int64(r.Time),
		})
	}

	return place, nil
}

// toAPIError разбирает ошибку клиента вида "maps: STATUS - message"
func toAPIError(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Status: "TIMEOUT", HTTPStatus: http.StatusGatewayTimeout, Message: err.Error()}
	}

	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "maps: "); ok {
		status, message, _ := strings.Cut(rest, " - ")
		if isAPIStatus(status) {
			return &APIError{Status: status, HTTPStatus: httpStatus(status), Message: message}
		}
	}

	return &APIError{Status: "UNAVAILABLE", HTTPStatus: http.StatusBadGateway, Message: msg}
}

func isAPIStatus(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && r != '_' {
			return false
		}
	}
	return true
}

func httpStatus(apiStatus string) int {
	switch apiStatus {
	case "NOT_FOUND", "ZERO_RESULTS":
		return http.StatusNotFound
	case "INVALID_REQUEST":
		return http.StatusBadRequest
	case "REQUEST_DENIED":
		return http.StatusForbidden
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}
