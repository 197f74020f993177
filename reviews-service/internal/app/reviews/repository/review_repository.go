package repository

import (
	"context"
	"errors"
	"fmt"

	"flexreviews/pkg/metrics"
	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/query"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	serviceName = "reviews-service"

	uniqueViolation = "23505"
)

// Колонки, по которым разрешена сортировка
var sortableColumns = map[string]bool{
	"submitted_at": true,
	"rating":       true,
	"created_at":   true,
	"id":           true,
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository создает репозиторий отзывов поверх PostgreSQL
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// applyPredicate переводит предикат построителя запросов в WHERE
func applyPredicate(db *gorm.DB, p query.Predicate) *gorm.DB {
	if p.MinRating != nil {
		db = db.Where("rating >= ?", *p.MinRating)
	}
	if p.Channel != "" {
		db = db.Where("channel = ?", p.Channel)
	}
	if p.ListingID != nil {
		db = db.Where("listing_id = ?", *p.ListingID)
	}
	if p.SubmittedFrom != nil {
		db = db.Where("submitted_at >= ?", *p.SubmittedFrom)
	}
	if p.SubmittedTo != nil {
		db = db.Where("submitted_at <= ?", *p.SubmittedTo)
	}
	if p.Approved != nil {
		db = db.Where("is_approved = ?", *p.Approved)
	}
	return db
}

func (r *reviewRepository) Find(ctx context.Context, q query.Query) ([]entity.Review, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews")
	defer timer.ObserveDuration()

	db := applyPredicate(r.db.WithContext(ctx).Model(&entity.Review{}), q.Predicate)

	if sortableColumns[q.OrderBy.Field] {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy.Field}, Desc: q.OrderBy.Desc})
		// id разрывает ничьи, иначе страницы с одинаковым временем пересекаются
		if q.OrderBy.Field != "id" {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.OrderBy.Desc})
		}
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Skip > 0 {
		db = db.Offset(q.Skip)
	}

	var reviews []entity.Review
	if err := db.Find(&reviews).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) Count(ctx context.Context, p query.Predicate) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpCount, "reviews")
	defer timer.ObserveDuration()

	var total int64
	if err := applyPredicate(r.db.WithContext(ctx).Model(&entity.Review{}), p).Count(&total).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpCount)
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	return total, nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*entity.Review, error) {
	var review entity.Review
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&review)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", result.Error)
	}

	return &review, nil
}

// Update применяет частичное изменение и возвращает отзыв в актуальном состоянии.
// Повторная запись того же значения не считается ошибкой.
func (r *reviewRepository) Update(ctx context.Context, id int64, patch entity.ReviewPatch) (*entity.Review, error) {
	updates := map[string]interface{}{}
	if patch.IsApproved != nil {
		updates["is_approved"] = *patch.IsApproved
	}
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "reviews")
	result := r.db.WithContext(ctx).Model(&entity.Review{}).Where("id = ?", id).Updates(updates)
	timer.ObserveDuration()

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return nil, fmt.Errorf("failed to update review: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, ErrReviewNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *reviewRepository) Insert(ctx context.Context, review *entity.Review) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "reviews")
	defer timer.ObserveDuration()

	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReview
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
