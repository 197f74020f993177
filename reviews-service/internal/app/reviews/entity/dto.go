package entity

import "time"

// ApproveReviewRequest - запрос на переключение публикации отзыва.
// IsApproved - указатель, чтобы отличать false от отсутствующего поля
type ApproveReviewRequest struct {
	ReviewID   int64 `json:"reviewId" validate:"required,gt=0"`
	IsApproved *bool `json:"isApproved" validate:"required"`
}

// LoginRequest - вход менеджера в дашборд
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse - выданный токен сессии
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        User      `json:"user"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Pagination - метаданные страницы выборки
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ReviewPage - страница отзывов вместе с метаданными пагинации
type ReviewPage struct {
	Reviews    []Review
	Pagination Pagination
}

// RecentReview - краткая запись о свежем отзыве для превью
type RecentReview struct {
	Rating      float64   `json:"rating"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ListingStats - вычисляемая статистика объекта (в БД не хранится)
type ListingStats struct {
	TotalReviews     int                `json:"totalReviews"`
	ApprovedReviews  int                `json:"approvedReviews"`
	AvgRating        float64            `json:"avgRating"`
	RatingBand       string             `json:"ratingBand"`
	CategoryAverages map[string]float64 `json:"categoryAverages"`
	RecentReviews    []RecentReview     `json:"recentReviews"`
}

// EnrichedListing - объект вместе со статистикой по отзывам
type EnrichedListing struct {
	Listing
	Stats   ListingStats `json:"stats"`
	Reviews []Review     `json:"reviews,omitempty"`
}

// MonthlyRating - точка графика средней оценки по месяцам
type MonthlyRating struct {
	Month     string  `json:"month"`
	AvgRating float64 `json:"avgRating"`
	Count     int     `json:"count"`
}

// CategoryScore - средняя оценка категории с подписью для дашборда
type CategoryScore struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	AvgRating float64 `json:"avgRating"`
}

// ListingDashboard - детальная страница объекта в дашборде менеджера
type ListingDashboard struct {
	EnrichedListing
	Channels   []Channel       `json:"channels"`
	Categories []CategoryScore `json:"categories"`
	Trend      []MonthlyRating `json:"trend"`
}

// DashboardOverview - сводка по всем объектам
type DashboardOverview struct {
	TotalReviews  int               `json:"totalReviews"`
	TotalApproved int               `json:"totalApproved"`
	AvgRating     float64           `json:"avgRating"`
	Listings      []EnrichedListing `json:"listings"`
}

// HostawayReviewCategory - оценка категории в формате Hostaway API
type HostawayReviewCategory struct {
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// HostawayReview - отзыв в формате Hostaway API
type HostawayReview struct {
	ID             int64                    `json:"id"`
	Type           string                   `json:"type"`
	Status         string                   `json:"status"`
	Rating         *float64                 `json:"rating"`
	PublicReview   string                   `json:"publicReview"`
	ReviewCategory []HostawayReviewCategory `json:"reviewCategory"`
	SubmittedAt    string                   `json:"submittedAt"`
	GuestName      string                   `json:"guestName"`
	ListingName    string                   `json:"listingName"`
}

// HostawayResponse - ответ Hostaway API со списком отзывов
type HostawayResponse struct {
	Status string           `json:"status"`
	Result []HostawayReview `json:"result" validate:"dive"`
}

// ImportResult - итог импорта отзывов из канала
type ImportResult struct {
	Received  int      `json:"received"`
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	Unmatched []string `json:"unmatchedListings,omitempty"`
}

// GoogleReview - нормализованный отзыв Google для ответа API
type GoogleReview struct {
	GuestName   string             `json:"guestName"`
	Rating      float64            `json:"rating"`
	ReviewText  string             `json:"reviewText"`
	SubmittedAt time.Time          `json:"submittedAt"`
	Channel     Channel            `json:"channel"`
	Categories  map[string]float64 `json:"categories"`
}

// GooglePlaceReviews - сводка отзывов места Google Places
type GooglePlaceReviews struct {
	PlaceName    string         `json:"placeName"`
	AvgRating    float64        `json:"avgRating"`
	TotalReviews int            `json:"totalReviews"`
	Reviews      []GoogleReview `json:"reviews"`
	Note         string         `json:"note"`
}

// GoogleSetupInfo - документация, возвращаемая без настроенного ключа API
type GoogleSetupInfo struct {
	Status         string              `json:"status"`
	Message        string              `json:"message"`
	Documentation  GoogleSetupDocument `json:"documentation"`
	ExamplePlaceID string              `json:"examplePlaceId"`
}

type GoogleSetupDocument struct {
	Requirements        []string          `json:"requirements"`
	Costs               map[string]string `json:"costs"`
	Limitations         []string          `json:"limitations"`
	RecommendedApproach string            `json:"recommendedApproach"`
}

// GooglePlace - ответ Place Details, приведенный к нужным полям
type GooglePlace struct {
	PlaceID          string              `json:"placeId"`
	Name             string              `json:"name"`
	Rating           float64             `json:"rating"`
	UserRatingsTotal int                 `json:"userRatingsTotal"`
	Reviews          []GooglePlaceReview `json:"reviews"`
}

// GooglePlaceReview - отзыв Google: оценка 1-5, время в unix-секундах
type GooglePlaceReview struct {
	AuthorName string  `json:"authorName"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	Time       int64   `json:"time"`
}
