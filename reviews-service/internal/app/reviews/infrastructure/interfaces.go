package infrastructure

import (
	"context"

	"flexreviews/reviews-service/internal/app/reviews/entity"
)

// MessagePublisher интерфейс для отправки событий об отзывах в Kafka
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// PlacesClient получает данные о месте и его отзывы из Google Places
type PlacesClient interface {
	FetchPlace(ctx context.Context, placeID string) (*entity.GooglePlace, error)
}
