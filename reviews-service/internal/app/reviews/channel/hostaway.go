package channel

import (
	"strconv"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"
)

const (
	HostawayTimeLayout   = "2006-01-02 15:04:05"
	HostawayReviewType   = "guest-to-host"
	HostawayStatusPublic = "published"
)

// FromHostaway разбирает отзыв в формате Hostaway API
func FromHostaway(r entity.HostawayReview) ExternalReview {
	categories := make([]CategoryRating, 0, len(r.ReviewCategory))
	for _, c := range r.ReviewCategory {
		categories = append(categories, CategoryRating{Label: c.Category, Rating: c.Rating})
	}

	ext := ExternalReview{
		ListingName: r.ListingName,
		GuestName:   r.GuestName,
		Rating:      r.Rating,
		Categories:  categories,
		Text:        r.PublicReview,
		SubmittedAt: ParseHostawayTime(r.SubmittedAt),
	}
	if r.ID != 0 {
		ext.ExternalID = strconv.FormatInt(r.ID, 10)
	}
	return ext
}

// NormalizeHostaway - нормализатор канала Hostaway
func NormalizeHostaway(r entity.HostawayReview) entity.Review {
	return Normalize(FromHostaway(r), entity.ChannelHostaway)
}

// ParseHostawayTime понимает "YYYY-MM-DD HH:MM:SS" (UTC) и RFC3339.
// Нераспознанная строка дает нулевое время.
func ParseHostawayTime(value string) time.Time {
	if t, err := time.ParseInLocation(HostawayTimeLayout, value, time.UTC); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// ToHostaway представляет сохраненный отзыв в формате Hostaway API
func ToHostaway(review entity.Review, status string) entity.HostawayReview {
	categories := make([]entity.HostawayReviewCategory, 0, review.Categories.Len())
	review.Categories.Range(func(key string, value float64) {
		categories = append(categories, entity.HostawayReviewCategory{Category: key, Rating: value})
	})

	rating := review.Rating

	return entity.HostawayReview{
		ID:             review.ID,
		Type:           HostawayReviewType,
		Status:         status,
		Rating:         &rating,
		PublicReview:   review.ReviewText,
		ReviewCategory: categories,
		SubmittedAt:    review.SubmittedAt.UTC().Format(HostawayTimeLayout),
		GuestName:      review.GuestName,
		ListingName:    review.ListingName,
	}
}
