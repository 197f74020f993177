package repository

import (
	"context"
	"errors"
	"fmt"

	"flexreviews/reviews-service/internal/app/reviews/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository создает репозиторий объектов поверх PostgreSQL
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) FindAll(ctx context.Context) ([]entity.Listing, error) {
	var listings []entity.Listing
	result := r.db.WithContext(ctx).Order("name ASC").Find(&listings)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find listings: %w", result.Error)
	}

	return listings, nil
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*entity.Listing, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *listingRepository) GetBySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *listingRepository) GetByName(ctx context.Context, name string) (*entity.Listing, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *listingRepository) first(ctx context.Context, cond string, arg interface{}) (*entity.Listing, error) {
	var listing entity.Listing
	result := r.db.WithContext(ctx).Where(cond, arg).First(&listing)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", result.Error)
	}

	return &listing, nil
}

func (r *listingRepository) FindWithPlaceID(ctx context.Context) ([]entity.Listing, error) {
	var listings []entity.Listing
	result := r.db.WithContext(ctx).Where("google_place_id <> ''").Order("name ASC").Find(&listings)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find listings with place id: %w", result.Error)
	}

	return listings, nil
}

// Upsert - slug неизменяем, поэтому конфликт по нему обновляет остальные поля
func (r *listingRepository) Upsert(ctx context.Context, listing *entity.Listing) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "location", "description", "image_url", "amenities", "google_place_id", "updated_at",
		}),
	}).Create(listing)

	if result.Error != nil {
		return fmt.Errorf("failed to upsert listing: %w", result.Error)
	}

	return nil
}
