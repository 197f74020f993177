package stats

import (
	"sort"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"
)

const recentPreviewSize = 3

// Enrich собирает статистику объекта по переданным отзывам.
// Средние считаются по всем отзывам, без фильтра по публикации: если нужна
// только опубликованная выборка (публичная страница), ее готовит вызывающий.
// Порядок отзывов не меняется, превью берет первые три как есть.
func Enrich(listing entity.Listing, reviews []entity.Review) entity.EnrichedListing {
	approved := 0
	for _, r := range reviews {
		if r.IsApproved {
			approved++
		}
	}

	n := len(reviews)
	if n > recentPreviewSize {
		n = recentPreviewSize
	}
	recent := make([]entity.RecentReview, 0, n)
	for _, r := range reviews[:n] {
		recent = append(recent, entity.RecentReview{
			Rating:      r.Rating,
			SubmittedAt: r.SubmittedAt,
		})
	}

	avg := AverageRating(reviews)

	return entity.EnrichedListing{
		Listing: listing,
		Stats: entity.ListingStats{
			TotalReviews:     len(reviews),
			ApprovedReviews:  approved,
			AvgRating:        avg,
			RatingBand:       RatingBand(avg),
			CategoryAverages: CategoryAverages(reviews),
			RecentReviews:    recent,
		},
	}
}

// FilterApproved возвращает только опубликованные отзывы, сохраняя порядок
func FilterApproved(reviews []entity.Review) []entity.Review {
	out := make([]entity.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.IsApproved {
			out = append(out, r)
		}
	}
	return out
}

// Channels - множество каналов в выборке в порядке первого появления
func Channels(reviews []entity.Review) []entity.Channel {
	seen := make(map[entity.Channel]bool)
	channels := make([]entity.Channel, 0)
	for _, r := range reviews {
		if !seen[r.Channel] {
			seen[r.Channel] = true
			channels = append(channels, r.Channel)
		}
	}
	return channels
}

// CategoryScores - средние по категориям с подписями, в каноническом порядке
func CategoryScores(reviews []entity.Review) []entity.CategoryScore {
	averages := entity.CategoriesFromMap(CategoryAverages(reviews))

	scores := make([]entity.CategoryScore, 0, averages.Len())
	averages.Range(func(key string, value float64) {
		scores = append(scores, entity.CategoryScore{
			Key:       key,
			Label:     entity.CategoryLabel(key),
			AvgRating: value,
		})
	})
	return scores
}

// MonthlyTrend группирует отзывы по месяцу отправки (UTC) и возвращает
// среднюю оценку по месяцам в хронологическом порядке
func MonthlyTrend(reviews []entity.Review) []entity.MonthlyRating {
	type bucket struct {
		month time.Time
		sum   float64
		count int
	}

	buckets := make(map[time.Time]*bucket)
	for _, r := range reviews {
		at := r.SubmittedAt.UTC()
		month := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
		b, ok := buckets[month]
		if !ok {
			b = &bucket{month: month}
			buckets[month] = b
		}
		b.sum += r.Rating
		b.count++
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].month.Before(ordered[j].month)
	})

	trend := make([]entity.MonthlyRating, 0, len(ordered))
	for _, b := range ordered {
		trend = append(trend, entity.MonthlyRating{
			Month:     b.month.Format("Jan 2006"),
			AvgRating: Round1(b.sum / float64(b.count)),
			Count:     b.count,
		})
	}
	return trend
}

// Overview - сводка по объектам: суммы и среднее средних оценок объектов
func Overview(listings []entity.EnrichedListing) entity.DashboardOverview {
	overview := entity.DashboardOverview{Listings: listings}
	if len(listings) == 0 {
		overview.Listings = []entity.EnrichedListing{}
		return overview
	}

	var sum float64
	for _, l := range listings {
		overview.TotalReviews += l.Stats.TotalReviews
		overview.TotalApproved += l.Stats.ApprovedReviews
		sum += l.Stats.AvgRating
	}
	overview.AvgRating = Round1(sum / float64(len(listings)))
	return overview
}

const (
	SortByRating  = "rating"
	SortByReviews = "reviews"
	SortByName    = "name"
)

// SortListings упорядочивает объекты для дашборда; неизвестный ключ не меняет порядок
func SortListings(listings []entity.EnrichedListing, sortBy string) {
	switch sortBy {
	case SortByRating:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Stats.AvgRating > listings[j].Stats.AvgRating
		})
	case SortByReviews:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Stats.TotalReviews > listings[j].Stats.TotalReviews
		})
	case SortByName:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Name < listings[j].Name
		})
	}
}
