package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/stats"
)

const (
	DefaultReviewCount = 50

	ManagerEmail    = "manager@flex.com"
	ManagerPassword = "demo123"
	ManagerName     = "Flex Manager"

	historyDays = 365
)

// Listings - демонстрационные объекты
func Listings() []entity.Listing {
	return []entity.Listing{
		{
			Name:        "2B N1 A - 29 Shoreditch Heights",
			Slug:        "2b-n1-a-29-shoreditch-heights",
			Location:    "Shoreditch, London, UK",
			Description: "Modern 2-bedroom apartment in the heart of Shoreditch with stunning city views. Perfect for professionals and digital nomads.",
			ImageURL:    "https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?w=800",
			Amenities:   entity.Amenities{"WiFi", "Kitchen", "Washer", "Dryer", "Workspace", "Gym Access"},
		},
		{
			Name:        "Studio Mitte - Berlin Central",
			Slug:        "studio-mitte-berlin-central",
			Location:    "Mitte, Berlin, Germany",
			Description: "Stylish studio in Berlin's most vibrant neighborhood. Walking distance to museums, cafes, and public transport.",
			ImageURL:    "https://images.unsplash.com/photo-1502672260066-6bc35f0a1b68?w=800",
			Amenities:   entity.Amenities{"WiFi", "Kitchen", "Heating", "Workspace", "Bike Storage"},
		},
		{
			Name:        "1B Marais Loft - Paris",
			Slug:        "1b-marais-loft-paris",
			Location:    "Le Marais, Paris, France",
			Description: "Charming loft in the historic Marais district. High ceilings, exposed beams, and Parisian charm.",
			ImageURL:    "https://images.unsplash.com/photo-1512918728675-ed5a9ecdebfd?w=800",
			Amenities:   entity.Amenities{"WiFi", "Kitchen", "Heating", "Workspace", "Balcony"},
		},
		{
			Name:        "2B Camden Heights",
			Slug:        "2b-camden-heights",
			Location:    "Camden, London, UK",
			Description: "Spacious 2-bedroom near Camden Market. Ideal for creative professionals and music lovers.",
			ImageURL:    "https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?w=800",
			Amenities:   entity.Amenities{"WiFi", "Kitchen", "Washer", "Dryer", "Workspace", "Rooftop Access"},
		},
		{
			Name:        "Penthouse Kreuzberg",
			Slug:        "penthouse-kreuzberg",
			Location:    "Kreuzberg, Berlin, Germany",
			Description: "Luxury penthouse with panoramic views of Berlin. Modern design meets industrial chic.",
			ImageURL:    "https://images.unsplash.com/photo-1567767292278-a4f21aa2d36e?w=800",
			Amenities:   entity.Amenities{"WiFi", "Kitchen", "Washer", "Dryer", "Workspace", "Terrace", "Gym"},
		},
		{
			Name:        "Cozy Saint-Germain Studio",
			Slug:        "cozy-saint-germain-studio",
			Location:    "Saint-Germain-des-Prés, Paris, France",
			Description: "Intimate studio in the literary heart of Paris. Perfect for solo travelers and writers.",
			ImageURL:    "https://images.unsplash.com/photo-1536376072261-38c75010e6c9?w=800",
			Amenities:   entity.Amenities{"WiFi", "Kitchen", "Heating", "Workspace"},
		},
	}
}

var guestNames = []string{
	"Sarah Johnson", "Michael Chen", "Emma Thompson", "David Martinez",
	"Lisa Anderson", "James Wilson", "Sofia Rodriguez", "Alex Kim",
	"Maria Garcia", "Tom Brown", "Anna Schmidt", "Chris Taylor",
	"Nina Patel", "Max Mueller", "Julia Dubois", "Ryan O'Connor",
	"Leah Cohen", "Marco Rossi", "Zara Ahmed", "Lucas Silva",
}

var reviewTemplates = map[string][]string{
	stats.BandExcellent: {
		"Absolutely fantastic stay! The apartment exceeded all expectations. Everything was spotless and the location couldn't be better.",
		"Perfect place for our stay. The host was incredibly responsive and helpful. Would definitely return!",
		"Outstanding experience from start to finish. The apartment is even better than the photos suggest.",
		"Couldn't have asked for a better place. Modern, clean, and in the perfect location. Highly recommend!",
		"Exceptional property! Every detail was thought through. Made our trip truly memorable.",
	},
	stats.BandGood: {
		"Really enjoyed our stay. The apartment was clean and well-equipped. Minor issues were quickly resolved.",
		"Great location and comfortable space. A few small things could be improved but overall very satisfied.",
		"Good experience overall. The apartment met our needs and the host was helpful.",
		"Nice place with good amenities. Would consider staying again on our next visit.",
		"Solid choice for accommodation. Clean, comfortable, and conveniently located.",
	},
	stats.BandAverage: {
		"Decent stay. The apartment was as described but nothing exceptional.",
		"Okay experience. Some aspects were good, others could use improvement.",
		"The place served its purpose. Location was convenient but the apartment itself was basic.",
		"Average stay. Met basic expectations but didn't exceed them.",
		"Fair accommodation. Would be great for a short stay but not ideal for longer periods.",
	},
	stats.BandPoor: {
		"Disappointed with several aspects. The cleanliness wasn't up to standard and communication was lacking.",
		"Not what we expected based on the listing. Several amenities weren't working properly.",
		"Below average experience. The apartment needs maintenance and better attention to detail.",
		"Had some issues during our stay that weren't addressed promptly. Expected better quality.",
		"Unfortunate stay. Location was the only positive. The apartment itself needs significant improvement.",
	},
}

var seedChannels = []entity.Channel{entity.ChannelHostaway, entity.ChannelAirbnb, entity.ChannelBooking}

// Generator строит демонстрационные отзывы. При одинаковых seed и now
// результат одинаковый.
type Generator struct {
	rnd  *rand.Rand
	seed int64
	now  time.Time
}

func NewGenerator(seed int64, now time.Time) *Generator {
	return &Generator{
		rnd:  rand.New(rand.NewSource(seed)),
		seed: seed,
		now:  now.UTC(),
	}
}

// Reviews генерирует n отзывов по сохраненным объектам (ID уже заполнены).
// Внешний ключ "seed:<seed>:<i>" делает повторный запуск seed безопасным.
func (g *Generator) Reviews(listings []entity.Listing, n int) []entity.Review {
	if len(listings) == 0 {
		return nil
	}

	reviews := make([]entity.Review, 0, n)
	for i := 0; i < n; i++ {
		listing := listings[g.rnd.Intn(len(listings))]
		guest := guestNames[g.rnd.Intn(len(guestNames))]
		channel := seedChannels[g.rnd.Intn(len(seedChannels))]

		rating, band := g.rating()
		templates := reviewTemplates[band]
		text := templates[g.rnd.Intn(len(templates))]

		daysAgo := g.rnd.Intn(historyDays)
		externalID := fmt.Sprintf("seed:%d:%d", g.seed, i)

		reviews = append(reviews, entity.Review{
			ListingID:   listing.ID,
			ListingName: listing.Name,
			ExternalID:  &externalID,
			GuestName:   guest,
			Rating:      rating,
			Categories:  g.categories(rating),
			ReviewText:  text,
			Channel:     channel,
			SubmittedAt: g.now.AddDate(0, 0, -daysAgo),
			IsApproved:  g.rnd.Float64() < 0.6 && rating >= 7,
		})
	}
	return reviews
}

// rating: 50% excellent 9-10, 30% good 7.5-9, 15% average 6-7.5, 5% poor 4-6
func (g *Generator) rating() (float64, string) {
	roll := g.rnd.Float64()

	var rating float64
	var band string
	switch {
	case roll < 0.5:
		rating, band = 9+g.rnd.Float64(), stats.BandExcellent
	case roll < 0.8:
		rating, band = 7.5+g.rnd.Float64()*1.5, stats.BandGood
	case roll < 0.95:
		rating, band = 6+g.rnd.Float64()*1.5, stats.BandAverage
	default:
		rating, band = 4+g.rnd.Float64()*2, stats.BandPoor
	}

	return stats.Round1(rating), band
}

func (g *Generator) categories(rating float64) entity.CategoryRatings {
	jitter := func(spread, shift float64) float64 {
		return categoryScore(rating + (g.rnd.Float64()-shift)*spread)
	}

	var c entity.CategoryRatings
	c.Set("cleanliness", jitter(1, 0.5))
	c.Set("communication", jitter(1, 0.5))
	c.Set("respect_house_rules", jitter(1, 0.5))
	c.Set("value", categoryScore(rating))
	c.Set("location", jitter(1, 0.3))
	return c
}

// categoryScore округляет до целого и ограничивает 1..10
func categoryScore(v float64) float64 {
	return math.Min(10, math.Max(1, math.Round(v)))
}
