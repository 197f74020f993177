package repository

import (
	"context"
	"errors"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/query"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound  = errors.New("review not found")
	ErrListingNotFound = errors.New("listing not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateReview = errors.New("review already exists")
)

// ReviewRepository - хранилище отзывов. Реализации: Postgres (GORM) и MongoDB.
type ReviewRepository interface {
	// Find возвращает отзывы по предикату; Limit == 0 означает без ограничения
	Find(ctx context.Context, q query.Query) ([]entity.Review, error)
	Count(ctx context.Context, p query.Predicate) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Review, error)
	Update(ctx context.Context, id int64, patch entity.ReviewPatch) (*entity.Review, error)
	// Insert сохраняет отзыв; при повторе ExternalID возвращает ErrDuplicateReview
	Insert(ctx context.Context, review *entity.Review) error
}

// ListingRepository - хранилище объектов недвижимости
type ListingRepository interface {
	// FindAll возвращает объекты, отсортированные по имени
	FindAll(ctx context.Context) ([]entity.Listing, error)
	GetByID(ctx context.Context, id int64) (*entity.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Listing, error)
	GetByName(ctx context.Context, name string) (*entity.Listing, error)
	// FindWithPlaceID возвращает объекты, привязанные к месту Google
	FindWithPlaceID(ctx context.Context) ([]entity.Listing, error)
	// Upsert создает объект или обновляет существующий с тем же slug
	Upsert(ctx context.Context, listing *entity.Listing) error
}

// UserRepository - учетные записи менеджеров (PostgreSQL через pgx)
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Create не перезаписывает существующего пользователя с тем же email
	Create(ctx context.Context, user *entity.User) error
	EnsureSchema(ctx context.Context) error
}

// TokenBlacklist хранит отозванные токены сессий до истечения их срока
type TokenBlacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// PlacesCache кеширует ответы Google Places
type PlacesCache interface {
	// Get возвращает nil без ошибки, если записи нет
	Get(ctx context.Context, placeID string) (*entity.GooglePlace, error)
	Set(ctx context.Context, place *entity.GooglePlace) error
}
