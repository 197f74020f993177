package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flexreviews/pkg/logger"
	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	reviewsCollection  = "reviews"
	listingsCollection = "listings"
	countersCollection = "counters"
)

// reviewDocument - представление отзыва в MongoDB. Категории хранятся
// текстом в том же формате, что и в PostgreSQL.
type reviewDocument struct {
	ID          int64     `bson:"_id"`
	ListingID   int64     `bson:"listing_id"`
	ListingName string    `bson:"listing_name"`
	ExternalID  *string   `bson:"external_id,omitempty"`
	GuestName   string    `bson:"guest_name"`
	Rating      float64   `bson:"rating"`
	Categories  string    `bson:"categories"`
	ReviewText  string    `bson:"review_text"`
	Channel     string    `bson:"channel"`
	SubmittedAt time.Time `bson:"submitted_at"`
	IsApproved  bool      `bson:"is_approved"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newReviewDocument(r *entity.Review) reviewDocument {
	return reviewDocument{
		ID:          r.ID,
		ListingID:   r.ListingID,
		ListingName: r.ListingName,
		ExternalID:  r.ExternalID,
		GuestName:   r.GuestName,
		Rating:      r.Rating,
		Categories:  entity.EncodeCategories(r.Categories),
		ReviewText:  r.ReviewText,
		Channel:     string(r.Channel),
		SubmittedAt: r.SubmittedAt,
		IsApproved:  r.IsApproved,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (d reviewDocument) toEntity() entity.Review {
	return entity.Review{
		ID:          d.ID,
		ListingID:   d.ListingID,
		ListingName: d.ListingName,
		ExternalID:  d.ExternalID,
		GuestName:   d.GuestName,
		Rating:      d.Rating,
		Categories:  entity.DecodeCategories(d.Categories),
		ReviewText:  d.ReviewText,
		Channel:     entity.Channel(d.Channel),
		SubmittedAt: d.SubmittedAt.UTC(),
		IsApproved:  d.IsApproved,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type listingDocument struct {
	ID            int64     `bson:"_id"`
	Name          string    `bson:"name"`
	Slug          string    `bson:"slug"`
	Location      string    `bson:"location"`
	Description   string    `bson:"description"`
	ImageURL      string    `bson:"image_url"`
	Amenities     []string  `bson:"amenities"`
	GooglePlaceID string    `bson:"google_place_id"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (d listingDocument) toEntity() entity.Listing {
	return entity.Listing{
		ID:            d.ID,
		Name:          d.Name,
		Slug:          d.Slug,
		Location:      d.Location,
		Description:   d.Description,
		ImageURL:      d.ImageURL,
		Amenities:     entity.Amenities(d.Amenities),
		GooglePlaceID: d.GooglePlaceID,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// buildFilter переводит предикат построителя запросов в фильтр MongoDB
func buildFilter(p query.Predicate) bson.M {
	filter := bson.M{}

	if p.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *p.MinRating}
	}
	if p.Channel != "" {
		filter["channel"] = string(p.Channel)
	}
	if p.ListingID != nil {
		filter["listing_id"] = *p.ListingID
	}
	if p.SubmittedFrom != nil || p.SubmittedTo != nil {
		submitted := bson.M{}
		if p.SubmittedFrom != nil {
			submitted["$gte"] = *p.SubmittedFrom
		}
		if p.SubmittedTo != nil {
			submitted["$lte"] = *p.SubmittedTo
		}
		filter["submitted_at"] = submitted
	}
	if p.Approved != nil {
		filter["is_approved"] = *p.Approved
	}

	return filter
}

// nextID выдает следующий числовой идентификатор из коллекции счетчиков,
// чтобы ID совпадали по типу с PostgreSQL-хранилищем
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(countersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", name, err)
	}

	return counter.Seq, nil
}

func createIndexes(ctx context.Context, collection *mongo.Collection, models []mongo.IndexModel) {
	if _, err := collection.Indexes().CreateMany(ctx, models); err != nil {
		// Индексы могут уже существовать - работу не прерываем
		logger.Warn().Err(err).Str("collection", collection.Name()).Msg("Failed to create indexes")
	}
}

type mongoReviewRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoReviewRepository создает репозиторий отзывов в MongoDB
// и создает индексы для фильтров и идемпотентного импорта
func NewMongoReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection(reviewsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "submitted_at", Value: -1}},
			Options: options.Index().SetName("listing_submitted_idx"),
		},
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetName("external_id_idx").SetUnique(true).SetSparse(true),
		},
	})

	return &mongoReviewRepository{
		db:         db,
		collection: collection,
	}
}

// sortSpec добавляет _id вторым ключом в том же направлении
func sortSpec(order query.OrderBy) bson.D {
	if !sortableColumns[order.Field] {
		return nil
	}

	direction := 1
	if order.Desc {
		direction = -1
	}

	field := order.Field
	if field == "id" {
		field = "_id"
	}
	if field == "_id" {
		return bson.D{{Key: field, Value: direction}}
	}
	return bson.D{{Key: field, Value: direction}, {Key: "_id", Value: direction}}
}

func (r *mongoReviewRepository) Find(ctx context.Context, q query.Query) ([]entity.Review, error) {
	opts := options.Find()
	if sorting := sortSpec(q.OrderBy); sorting != nil {
		opts.SetSort(sorting)
	}
	if q.Skip > 0 {
		opts.SetSkip(int64(q.Skip))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := r.collection.Find(ctx, buildFilter(q.Predicate), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	reviews := make([]entity.Review, 0, len(docs))
	for _, d := range docs {
		reviews = append(reviews, d.toEntity())
	}

	return reviews, nil
}

func (r *mongoReviewRepository) Count(ctx context.Context, p query.Predicate) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, buildFilter(p))
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return total, nil
}

func (r *mongoReviewRepository) GetByID(ctx context.Context, id int64) (*entity.Review, error) {
	var doc reviewDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	review := doc.toEntity()
	return &review, nil
}

func (r *mongoReviewRepository) Update(ctx context.Context, id int64, patch entity.ReviewPatch) (*entity.Review, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.IsApproved != nil {
		set["is_approved"] = *patch.IsApproved
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc reviewDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	review := doc.toEntity()
	return &review, nil
}

func (r *mongoReviewRepository) Insert(ctx context.Context, review *entity.Review) error {
	id, err := nextID(ctx, r.db, reviewsCollection)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	review.ID = id
	review.CreatedAt = now
	review.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, newReviewDocument(review)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

type mongoListingRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoListingRepository создает репозиторий объектов в MongoDB
func NewMongoListingRepository(db *mongo.Database) ListingRepository {
	collection := db.Collection(listingsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("slug_idx").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_idx"),
		},
	})

	return &mongoListingRepository{
		db:         db,
		collection: collection,
	}
}

func (r *mongoListingRepository) find(ctx context.Context, filter bson.M) ([]entity.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	listings := make([]entity.Listing, 0, len(docs))
	for _, d := range docs {
		listings = append(listings, d.toEntity())
	}

	return listings, nil
}

func (r *mongoListingRepository) findOne(ctx context.Context, filter bson.M) (*entity.Listing, error) {
	var doc listingDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	listing := doc.toEntity()
	return &listing, nil
}

func (r *mongoListingRepository) FindAll(ctx context.Context) ([]entity.Listing, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoListingRepository) GetByID(ctx context.Context, id int64) (*entity.Listing, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoListingRepository) GetBySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoListingRepository) GetByName(ctx context.Context, name string) (*entity.Listing, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoListingRepository) FindWithPlaceID(ctx context.Context) ([]entity.Listing, error) {
	return r.find(ctx, bson.M{"google_place_id": bson.M{"$gt": ""}})
}

func (r *mongoListingRepository) Upsert(ctx context.Context, listing *entity.Listing) error {
	now := time.Now().UTC()

	existing, err := r.GetBySlug(ctx, listing.Slug)
	switch {
	case err == nil:
		listing.ID = existing.ID
		listing.CreatedAt = existing.CreatedAt
	case errors.Is(err, ErrListingNotFound):
		id, err := nextID(ctx, r.db, listingsCollection)
		if err != nil {
			return err
		}
		listing.ID = id
		listing.CreatedAt = now
	default:
		return err
	}
	listing.UpdatedAt = now

	doc := listingDocument{
		ID:            listing.ID,
		Name:          listing.Name,
		Slug:          listing.Slug,
		Location:      listing.Location,
		Description:   listing.Description,
		ImageURL:      listing.ImageURL,
		Amenities:     []string(listing.Amenities),
		GooglePlaceID: listing.GooglePlaceID,
		CreatedAt:     listing.CreatedAt,
		UpdatedAt:     listing.UpdatedAt,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": listing.ID}, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert listing: %w", err)
	}

	return nil
}
