package seed

import (
	"testing"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func storedListings() []entity.Listing {
	listings := Listings()
	for i := range listings {
		listings[i].ID = int64(i + 1)
	}
	return listings
}

func TestListings(t *testing.T) {
	listings := Listings()

	require.Len(t, listings, 6)
	slugs := make(map[string]bool)
	for _, l := range listings {
		assert.NotEmpty(t, l.Name)
		assert.NotEmpty(t, l.Amenities)
		slugs[l.Slug] = true
	}
	assert.Len(t, slugs, 6)
}

func TestGenerator_Deterministic(t *testing.T) {
	first := NewGenerator(42, fixedNow).Reviews(storedListings(), DefaultReviewCount)
	second := NewGenerator(42, fixedNow).Reviews(storedListings(), DefaultReviewCount)

	assert.Equal(t, first, second)
}

func TestGenerator_DifferentSeeds(t *testing.T) {
	first := NewGenerator(1, fixedNow).Reviews(storedListings(), DefaultReviewCount)
	second := NewGenerator(2, fixedNow).Reviews(storedListings(), DefaultReviewCount)

	assert.NotEqual(t, first, second)
}

func TestGenerator_ReviewInvariants(t *testing.T) {
	reviews := NewGenerator(7, fixedNow).Reviews(storedListings(), 500)

	require.Len(t, reviews, 500)
	externalIDs := make(map[string]bool)
	for _, r := range reviews {
		assert.GreaterOrEqual(t, r.Rating, 4.0)
		assert.LessOrEqual(t, r.Rating, 10.0)
		assert.Equal(t, r.Rating, float64(int(r.Rating*10+0.5))/10)

		assert.True(t, r.SubmittedAt.After(fixedNow.AddDate(0, 0, -historyDays)))
		assert.False(t, r.SubmittedAt.After(fixedNow))

		assert.Contains(t, []entity.Channel{entity.ChannelHostaway, entity.ChannelAirbnb, entity.ChannelBooking}, r.Channel)
		assert.NotZero(t, r.ListingID)
		assert.NotEmpty(t, r.ReviewText)

		if r.IsApproved {
			assert.GreaterOrEqual(t, r.Rating, 7.0)
		}

		assert.Equal(t, 5, r.Categories.Len())
		r.Categories.Range(func(key string, value float64) {
			assert.GreaterOrEqual(t, value, 1.0, key)
			assert.LessOrEqual(t, value, 10.0, key)
			assert.Equal(t, float64(int(value)), value, key)
		})

		require.NotNil(t, r.ExternalID)
		externalIDs[*r.ExternalID] = true
	}
	assert.Len(t, externalIDs, 500)
}

func TestGenerator_RatingDistribution(t *testing.T) {
	reviews := NewGenerator(99, fixedNow).Reviews(storedListings(), 2000)

	excellent := 0
	for _, r := range reviews {
		if r.Rating >= 9 {
			excellent++
		}
	}

	// около половины отзывов в диапазоне 9-10
	assert.InDelta(t, 1000, excellent, 150)
}

func TestGenerator_NoListings(t *testing.T) {
	assert.Empty(t, NewGenerator(1, fixedNow).Reviews(nil, 10))
}

func TestCategoryScore(t *testing.T) {
	assert.Equal(t, 10.0, categoryScore(10.4))
	assert.Equal(t, 1.0, categoryScore(0.2))
	assert.Equal(t, 8.0, categoryScore(7.6))
}
