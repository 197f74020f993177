package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flexreviews/pkg/metrics"
	"flexreviews/reviews-service/internal/app/reviews/entity"

	"github.com/redis/go-redis/v9"
)

const (
	blacklistPrefix = "blacklist"
	placesPrefix    = "google_place"
)

type redisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist создает черный список токенов в Redis
func NewRedisTokenBlacklist(client *redis.Client) TokenBlacklist {
	return &redisTokenBlacklist{client: client}
}

// Add добавляет токен в черный список с TTL до его истечения
func (r *redisTokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	key := fmt.Sprintf("%s:%s", blacklistPrefix, token)

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Токен уже истек, хранить нечего
		return nil
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

func (r *redisTokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("%s:%s", blacklistPrefix, token)

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpExists)
	defer timer.ObserveDuration()

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpExists)
		return false, fmt.Errorf("failed to check if token is blacklisted: %w", err)
	}

	return exists > 0, nil
}

type redisPlacesCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPlacesCache создает кеш ответов Google Places с заданным TTL
func NewRedisPlacesCache(client *redis.Client, ttl time.Duration) PlacesCache {
	return &redisPlacesCache{
		client: client,
		ttl:    ttl,
	}
}

func placeKey(placeID string) string {
	return fmt.Sprintf("%s:%s", placesPrefix, placeID)
}

func (r *redisPlacesCache) Get(ctx context.Context, placeID string) (*entity.GooglePlace, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, placeKey(placeID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, placesPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get place from redis: %w", err)
	}

	var place entity.GooglePlace
	if err := json.Unmarshal([]byte(data), &place); err != nil {
		return nil, fmt.Errorf("failed to unmarshal place: %w", err)
	}

	metrics.RecordCacheHit(serviceName, placesPrefix)
	return &place, nil
}

func (r *redisPlacesCache) Set(ctx context.Context, place *entity.GooglePlace) error {
	data, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("failed to marshal place: %w", err)
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, placeKey(place.PlaceID), data, r.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set place in redis: %w", err)
	}

	return nil
}
