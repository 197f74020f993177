package channel

import (
	"fmt"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"
)

// Google ставит оценки по шкале 1-5, в системе шкала 0-10
const googleScale = 2.0

const GoogleOverallCategory = "overall"

// FromGoogle разбирает отзыв Google Places. Своего ID у отзыва нет,
// поэтому ключ собирается из места, времени и автора.
func FromGoogle(placeID, listingName string, r entity.GooglePlaceReview) ExternalReview {
	rating := r.Rating * googleScale

	return ExternalReview{
		ExternalID:  fmt.Sprintf("%s:%d:%s", placeID, r.Time, r.AuthorName),
		ListingName: listingName,
		GuestName:   r.AuthorName,
		Rating:      &rating,
		Categories:  []CategoryRating{{Label: GoogleOverallCategory, Rating: rating}},
		Text:        r.Text,
		SubmittedAt: time.Unix(r.Time, 0).UTC(),
	}
}

// NormalizeGoogle - нормализатор канала Google
func NormalizeGoogle(placeID, listingName string, r entity.GooglePlaceReview) entity.Review {
	return Normalize(FromGoogle(placeID, listingName, r), entity.ChannelGoogle)
}

// NormalizeGooglePlace нормализует все отзывы места; имя места служит именем объекта
func NormalizeGooglePlace(place entity.GooglePlace) []entity.Review {
	reviews := make([]entity.Review, 0, len(place.Reviews))
	for _, r := range place.Reviews {
		reviews = append(reviews, NormalizeGoogle(place.PlaceID, place.Name, r))
	}
	return reviews
}

// GoogleScale переводит оценку места Google в шкалу системы
func GoogleScale(rating float64) float64 {
	return clamp(rating * googleScale)
}
