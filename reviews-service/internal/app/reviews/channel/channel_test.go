package channel

import (
	"testing"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestCategoryKey(t *testing.T) {
	cases := map[string]string{
		"Cleanliness":          "cleanliness",
		"respect_house_rules":  "respect_house_rules",
		"Respect House  Rules": "respect_house_rules",
		"  Value ":             "value",
		"Check\tIn":            "check_in",
	}

	for label, want := range cases {
		t.Run(label, func(t *testing.T) {
			assert.Equal(t, want, CategoryKey(label))
		})
	}
}

func TestNormalize_RatingFromCategoriesWhenMissing(t *testing.T) {
	// Arrange
	ext := ExternalReview{
		GuestName: "Shane Finkelstein",
		Rating:    nil,
		Categories: []CategoryRating{
			{Label: "cleanliness", Rating: 8},
			{Label: "communication", Rating: 6},
		},
	}

	// Act
	review := Normalize(ext, entity.ChannelHostaway)

	// Assert
	assert.Equal(t, 7.0, review.Rating)
	assert.Equal(t, entity.ChannelHostaway, review.Channel)

	v, ok := review.Categories.Get("cleanliness")
	require.True(t, ok)
	assert.Equal(t, 8.0, v)
}

func TestNormalize_ZeroRatingTreatedAsMissing(t *testing.T) {
	ext := ExternalReview{
		Rating:     ptr(0),
		Categories: []CategoryRating{{Label: "value", Rating: 9}},
	}

	assert.Equal(t, 9.0, Normalize(ext, entity.ChannelAirbnb).Rating)
}

func TestNormalize_NoRatingNoCategories(t *testing.T) {
	review := Normalize(ExternalReview{GuestName: "Anon"}, entity.ChannelBooking)

	assert.Equal(t, 0.0, review.Rating)
	assert.True(t, review.Categories.IsEmpty())
	assert.Nil(t, review.ExternalID)
}

func TestNormalize_ExplicitRatingWins(t *testing.T) {
	ext := ExternalReview{
		Rating:     ptr(9.5),
		Categories: []CategoryRating{{Label: "value", Rating: 4}},
	}

	assert.Equal(t, 9.5, Normalize(ext, entity.ChannelHostaway).Rating)
}

func TestNormalize_ClampsToScale(t *testing.T) {
	ext := ExternalReview{
		Rating: ptr(12),
		Categories: []CategoryRating{
			{Label: "cleanliness", Rating: 15},
			{Label: "location", Rating: -3},
		},
	}

	review := Normalize(ext, entity.ChannelHostaway)

	assert.Equal(t, 10.0, review.Rating)
	assert.Equal(t, map[string]float64{"cleanliness": 10, "location": 0}, review.Categories.ToMap())
}

func TestNormalize_UnknownCategoryGoesToOther(t *testing.T) {
	ext := ExternalReview{
		Rating:     ptr(8),
		Categories: []CategoryRating{{Label: "Check In", Rating: 7}},
	}

	review := Normalize(ext, entity.ChannelHostaway)

	assert.Equal(t, map[string]float64{"check_in": 7}, review.Categories.Other)
}

func TestNormalize_ExternalIDPrefixedWithChannel(t *testing.T) {
	review := Normalize(ExternalReview{ExternalID: "7453"}, entity.ChannelHostaway)

	require.NotNil(t, review.ExternalID)
	assert.Equal(t, "hostaway:7453", *review.ExternalID)
}

func TestNormalize_KeepsSubmittedAt(t *testing.T) {
	submitted := time.Date(2020, 8, 21, 22, 45, 14, 0, time.UTC)

	review := Normalize(ExternalReview{SubmittedAt: submitted}, entity.ChannelAirbnb)

	assert.True(t, submitted.Equal(review.SubmittedAt))
}

// ===================== Hostaway =====================

func TestNormalizeHostaway(t *testing.T) {
	// Arrange
	raw := entity.HostawayReview{
		ID:           7453,
		Type:         "host-to-guest",
		Status:       "published",
		Rating:       nil,
		PublicReview: "Shane and family are wonderful!",
		ReviewCategory: []entity.HostawayReviewCategory{
			{Category: "cleanliness", Rating: 10},
			{Category: "communication", Rating: 10},
			{Category: "respect_house_rules", Rating: 10},
		},
		SubmittedAt: "2020-08-21 22:45:14",
		GuestName:   "Shane Finkelstein",
		ListingName: "2B N1 A - 29 Shoreditch Heights",
	}

	// Act
	review := NormalizeHostaway(raw)

	// Assert
	assert.Equal(t, 10.0, review.Rating)
	assert.Equal(t, "Shane Finkelstein", review.GuestName)
	assert.Equal(t, "2B N1 A - 29 Shoreditch Heights", review.ListingName)
	assert.Equal(t, "Shane and family are wonderful!", review.ReviewText)
	assert.Equal(t, time.Date(2020, 8, 21, 22, 45, 14, 0, time.UTC), review.SubmittedAt)
	assert.Equal(t, 3, review.Categories.Len())
	require.NotNil(t, review.ExternalID)
	assert.Equal(t, "hostaway:7453", *review.ExternalID)
}

func TestParseHostawayTime(t *testing.T) {
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), ParseHostawayTime("2024-01-02 03:04:05"))
	assert.Equal(t, time.Date(2024, 1, 2, 1, 4, 5, 0, time.UTC), ParseHostawayTime("2024-01-02T03:04:05+02:00"))
	assert.True(t, ParseHostawayTime("yesterday").IsZero())
	assert.True(t, ParseHostawayTime("").IsZero())
}

func TestToHostaway(t *testing.T) {
	review := entity.Review{
		ID:          42,
		ListingName: "Studio Soho",
		GuestName:   "Maria Garcia",
		Rating:      8.5,
		Categories:  entity.CategoriesFromMap(map[string]float64{"value": 8, "cleanliness": 9}),
		ReviewText:  "Great stay",
		SubmittedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	out := ToHostaway(review, HostawayStatusPublic)

	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, HostawayReviewType, out.Type)
	assert.Equal(t, "published", out.Status)
	require.NotNil(t, out.Rating)
	assert.Equal(t, 8.5, *out.Rating)
	assert.Equal(t, "2024-03-01 12:00:00", out.SubmittedAt)
	assert.Equal(t, []entity.HostawayReviewCategory{
		{Category: "cleanliness", Rating: 9},
		{Category: "value", Rating: 8},
	}, out.ReviewCategory)
}

func TestHostawayRoundTrip(t *testing.T) {
	original := entity.Review{
		ID:          7,
		Rating:      9,
		Categories:  entity.CategoriesFromMap(map[string]float64{"location": 9}),
		SubmittedAt: time.Date(2023, 11, 5, 8, 30, 0, 0, time.UTC),
	}

	back := NormalizeHostaway(ToHostaway(original, HostawayStatusPublic))

	assert.Equal(t, original.Rating, back.Rating)
	assert.Equal(t, original.Categories.ToMap(), back.Categories.ToMap())
	assert.Equal(t, original.SubmittedAt, back.SubmittedAt)
}

// ===================== Google =====================

func TestNormalizeGoogle_DoublesRating(t *testing.T) {
	r := entity.GooglePlaceReview{AuthorName: "John Smith", Rating: 4, Text: "Nice", Time: 1700000000}

	review := NormalizeGoogle("ChIJ123", "Flex Living Soho", r)

	assert.Equal(t, 8.0, review.Rating)
	assert.Equal(t, entity.ChannelGoogle, review.Channel)
	assert.Equal(t, "Flex Living Soho", review.ListingName)
	assert.Equal(t, map[string]float64{"overall": 8}, review.Categories.ToMap())
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), review.SubmittedAt)
	require.NotNil(t, review.ExternalID)
	assert.Equal(t, "google:ChIJ123:1700000000:John Smith", *review.ExternalID)
}

func TestNormalizeGooglePlace(t *testing.T) {
	place := entity.GooglePlace{
		PlaceID: "ChIJ123",
		Name:    "Flex Living Soho",
		Reviews: []entity.GooglePlaceReview{
			{AuthorName: "A", Rating: 5, Time: 1},
			{AuthorName: "B", Rating: 3, Time: 2},
		},
	}

	reviews := NormalizeGooglePlace(place)

	require.Len(t, reviews, 2)
	assert.Equal(t, 10.0, reviews[0].Rating)
	assert.Equal(t, 6.0, reviews[1].Rating)
}

func TestGoogleScale(t *testing.T) {
	assert.Equal(t, 9.2, GoogleScale(4.6))
	assert.Equal(t, 10.0, GoogleScale(5.5))
}
