package stats

import (
	"math"

	"flexreviews/reviews-service/internal/app/reviews/entity"
)

// Round1 округляет до одного знака после запятой (половина - от нуля)
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// AverageRating - среднее арифметическое оценок, округленное до 0.1.
// Для пустой выборки возвращает 0.
func AverageRating(reviews []entity.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}

	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return Round1(sum / float64(len(reviews)))
}

type categoryTotal struct {
	sum   float64
	count int
}

// CategoryAverages считает среднее по каждой категории только среди отзывов,
// где эта категория есть. Отзыв без категорий ни на что не влияет.
func CategoryAverages(reviews []entity.Review) map[string]float64 {
	totals := make(map[string]*categoryTotal)

	for _, r := range reviews {
		r.Categories.Range(func(key string, value float64) {
			t, ok := totals[key]
			if !ok {
				t = &categoryTotal{}
				totals[key] = t
			}
			t.sum += value
			t.count++
		})
	}

	averages := make(map[string]float64, len(totals))
	for key, t := range totals {
		averages[key] = Round1(t.sum / float64(t.count))
	}
	return averages
}
