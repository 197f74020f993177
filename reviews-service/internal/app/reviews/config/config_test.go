package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8083", cfg.Server.Address())
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.False(t, cfg.Google.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Mongo")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("GOOGLE_PLACES_API_KEY", "AIzaTestKey")
	t.Setenv("GOOGLE_CACHE_TTL", "30m")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, StorageDriverMongo, cfg.Storage.Driver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.Google.Enabled())
	assert.Equal(t, 30*time.Minute, cfg.Google.CacheTTL)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	t.Setenv("JWT_TTL", "forever")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB must be an integer")
	assert.Contains(t, err.Error(), "JWT_TTL must be a duration")
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestDatabaseConfig_Strings(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "reviews", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=reviews sslmode=disable", db.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/reviews?sslmode=disable", db.URL())
}
