package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"flexreviews/pkg/logger"
	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/infrastructure"
)

func newReviewEvent(eventType string, review *entity.Review, actorID string) entity.ReviewEvent {
	return entity.ReviewEvent{
		EventType:  eventType,
		ReviewID:   review.ID,
		ListingID:  review.ListingID,
		Channel:    review.Channel,
		Rating:     review.Rating,
		IsApproved: review.IsApproved,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
	}
}

// publishReviewEvent отправляет событие в Kafka. Ошибка только логируется:
// изменение уже сохранено, недоступность брокера не критична.
func publishReviewEvent(ctx context.Context, publisher infrastructure.MessagePublisher, event entity.ReviewEvent) {
	if publisher == nil {
		return
	}

	if err := sendEvent(ctx, publisher, event); err != nil {
		logger.Warn().
			Err(err).
			Str("event_type", event.EventType).
			Int64("review_id", event.ReviewID).
			Msg("Failed to publish review event")
	}
}

func sendEvent(ctx context.Context, publisher infrastructure.MessagePublisher, event entity.ReviewEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Ключ - ID объекта, чтобы события одного объекта шли по порядку
	return publisher.PublishMessage(ctx, strconv.FormatInt(event.ListingID, 10), data)
}
