package channel

import (
	"regexp"
	"strings"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"
)

const (
	minRating = 0.0
	maxRating = 10.0
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CategoryRating - оценка категории в терминах внешнего канала
type CategoryRating struct {
	Label  string
	Rating float64
}

// ExternalReview - отзыв из внешнего канала, уже разобранный из его формата,
// но еще не приведенный к каноническому Review
type ExternalReview struct {
	ExternalID  string
	ListingName string
	GuestName   string
	Rating      *float64
	Categories  []CategoryRating
	Text        string
	SubmittedAt time.Time
}

// CategoryKey приводит подпись категории к ключу: нижний регистр,
// пробельные последовательности заменяются на "_"
func CategoryKey(label string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "_")
}

// Normalize переводит внешний отзыв в канонический Review.
// Если общей оценки нет (nil или 0), берется среднее оценок категорий,
// если нет и категорий - 0. Функция чистая: без I/O и без времени "сейчас".
func Normalize(ext ExternalReview, ch entity.Channel) entity.Review {
	var categories entity.CategoryRatings
	for _, c := range ext.Categories {
		categories.Set(CategoryKey(c.Label), clamp(c.Rating))
	}

	review := entity.Review{
		ListingName: ext.ListingName,
		GuestName:   ext.GuestName,
		Rating:      clamp(overallRating(ext)),
		Categories:  categories,
		ReviewText:  ext.Text,
		Channel:     ch,
		SubmittedAt: ext.SubmittedAt,
	}

	if ext.ExternalID != "" {
		id := ExternalKey(ch, ext.ExternalID)
		review.ExternalID = &id
	}

	return review
}

// ExternalKey - ключ идемпотентного импорта, уникальный в рамках канала
func ExternalKey(ch entity.Channel, externalID string) string {
	return strings.ToLower(string(ch)) + ":" + externalID
}

func overallRating(ext ExternalReview) float64 {
	if ext.Rating != nil && *ext.Rating != 0 {
		return *ext.Rating
	}
	if len(ext.Categories) == 0 {
		return 0
	}

	var sum float64
	for _, c := range ext.Categories {
		sum += c.Rating
	}
	return sum / float64(len(ext.Categories))
}

func clamp(v float64) float64 {
	if v < minRating {
		return minRating
	}
	if v > maxRating {
		return maxRating
	}
	return v
}
