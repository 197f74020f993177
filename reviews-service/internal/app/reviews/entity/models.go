package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Channel - источник отзыва (платформа, с которой он пришел)
type Channel string

const (
	ChannelHostaway Channel = "Hostaway"
	ChannelAirbnb   Channel = "Airbnb"
	ChannelBooking  Channel = "Booking.com"
	ChannelGoogle   Channel = "Google"
)

// Review - отзыв гостя о проживании
// Оценка и категории в шкале 0-10, IsApproved меняется только менеджером
type Review struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	ListingID   int64           `json:"listingId" gorm:"not null;index"`
	ListingName string          `json:"listingName" gorm:"not null"`
	ExternalID  *string         `json:"externalId,omitempty" gorm:"uniqueIndex"`
	GuestName   string          `json:"guestName" gorm:"not null"`
	Rating      float64         `json:"rating" gorm:"not null;index"`
	Categories  CategoryRatings `json:"categories" gorm:"type:text"`
	ReviewText  string          `json:"reviewText" gorm:"type:text"`
	Channel     Channel         `json:"channel" gorm:"not null;index"`
	SubmittedAt time.Time       `json:"submittedAt" gorm:"not null;index"`
	IsApproved  bool            `json:"isApproved" gorm:"not null;default:false;index"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewPatch - частичное обновление отзыва, nil поля не меняются
type ReviewPatch struct {
	IsApproved *bool
}

// Listing - объект размещения, владеет отзывами (one-to-many)
type Listing struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"not null"`
	Slug          string    `json:"slug" gorm:"not null;uniqueIndex"`
	Location      string    `json:"location"`
	Description   string    `json:"description" gorm:"type:text"`
	ImageURL      string    `json:"imageUrl"`
	Amenities     Amenities `json:"amenities" gorm:"type:text"`
	GooglePlaceID string    `json:"googlePlaceId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Listing) TableName() string {
	return "listings"
}

// Amenities хранится в БД как JSON массив в текстовой колонке
type Amenities []string

func (a Amenities) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (a *Amenities) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*a = Amenities{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported amenities type %T", value)
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		*a = Amenities{}
		return nil
	}
	*a = items
	return nil
}

func (Amenities) GormDataType() string {
	return "text"
}

// User - учетная запись менеджера дашборда
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name"`
	Role         string    `json:"role" gorm:"not null;default:manager"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

const RoleManager = "manager"

// Session - аутентифицированная сессия менеджера, восстановленная из JWT
type Session struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
	Token     string    `json:"-"`
}

const (
	EventReviewApprovalChanged = "REVIEW_APPROVAL_CHANGED"
	EventReviewIngested        = "REVIEW_INGESTED"
)

// ReviewEvent - событие, публикуемое в Kafka
type ReviewEvent struct {
	EventType  string    `json:"event_type"`
	ReviewID   int64     `json:"review_id"`
	ListingID  int64     `json:"listing_id"`
	Channel    Channel   `json:"channel"`
	Rating     float64   `json:"rating"`
	IsApproved bool      `json:"is_approved"`
	ActorID    string    `json:"actor_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
