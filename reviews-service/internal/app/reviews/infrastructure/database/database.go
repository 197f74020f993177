package database

import (
	"context"
	"fmt"
	"time"

	"flexreviews/pkg/logger"
	"flexreviews/reviews-service/internal/app/reviews/config"
	"flexreviews/reviews-service/internal/app/reviews/entity"
	"flexreviews/reviews-service/internal/app/reviews/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 10
	retryDelay      = 3 * time.Second
)

// Stores - открытые хранилища сервиса и репозитории поверх них
type Stores struct {
	Reviews  repository.ReviewRepository
	Listings repository.ListingRepository
	Users    repository.UserRepository

	// Checks - проверки доступности для /health/readiness
	Checks map[string]func(ctx context.Context) error

	gormDB      *gorm.DB
	mongoClient *mongo.Client
	pool        *pgxpool.Pool
}

// Open подключает хранилище отзывов по STORAGE_DRIVER и пул PostgreSQL для пользователей
func Open(ctx context.Context, cfg config.StorageConfig) (*Stores, error) {
	pool, err := ConnectPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	stores := &Stores{
		Users: repository.NewUserRepository(pool),
		pool:  pool,
		Checks: map[string]func(ctx context.Context) error{
			"users_db": pool.Ping,
		},
	}

	switch cfg.Driver {
	case config.StorageDriverMongo:
		client, err := ConnectMongoDB(cfg.MongoDB)
		if err != nil {
			stores.Close()
			return nil, err
		}
		stores.mongoClient = client

		db := client.Database(cfg.MongoDB.Database)
		stores.Reviews = repository.NewMongoReviewRepository(db)
		stores.Listings = repository.NewMongoListingRepository(db)
		stores.Checks["mongodb"] = func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}
	default:
		db, err := ConnectPostgres(cfg.Database)
		if err != nil {
			stores.Close()
			return nil, err
		}
		stores.gormDB = db

		stores.Reviews = repository.NewReviewRepository(db)
		stores.Listings = repository.NewListingRepository(db)
		stores.Checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}

	logger.Info().Str("driver", cfg.Driver).Msg("Storage connected")
	return stores, nil
}

// Migrate создает схему: таблицы gorm или индексы Mongo (их создают репозитории), плюс users
func (s *Stores) Migrate(ctx context.Context) error {
	if s.gormDB != nil {
		if err := s.gormDB.WithContext(ctx).AutoMigrate(&entity.Listing{}, &entity.Review{}); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return s.Users.EnsureSchema(ctx)
}

func (s *Stores) Close() {
	if s.gormDB != nil {
		if sqlDB, err := s.gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if s.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

// ConnectPostgres устанавливает соединение с PostgreSQL через GORM с повторами
func ConnectPostgres(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}

	var db *gorm.DB
	var err error

	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if pingErr := sqlDB.Ping(); pingErr != nil {
				err = pingErr
			} else {
				sqlDB.SetMaxOpenConns(10)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to PostgreSQL, retrying...")
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", connectAttempts, err)
}

// ConnectPool открывает пул pgx для репозитория пользователей
func ConnectPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	poolConfig.MaxConns = 5
	poolConfig.MaxConnIdleTime = time.Minute

	var pool *pgxpool.Pool
	for i := 0; i < connectAttempts; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to open pgx pool, retrying...")
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to open pgx pool after %d attempts: %w", connectAttempts, err)
}

func ConnectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < connectAttempts; i++ {
		client, err = connectMongoOnce(clientOptions)
		if err == nil {
			return client, nil
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to MongoDB after %d attempts: %w", connectAttempts, err)
}

func connectMongoOnce(clientOptions *options.ClientOptions) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// ConnectRedis устанавливает соединение с Redis
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	var err error
	for i := 0; i < connectAttempts; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to Redis, retrying...")
		time.Sleep(retryDelay)
	}

	client.Close()
	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", connectAttempts, err)
}
