package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"
)

// Config содержит все настройки Reviews Service, команд seed и sync
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	JWT     JWTConfig
	Google  GoogleConfig
	Sync    SyncConfig
	CORS    CORSConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8083)
}

// StorageConfig - хранилище отзывов и объектов. Пользователи всегда в PostgreSQL.
type StorageConfig struct {
	Driver   string // postgres | mongo
	Database DatabaseConfig
	MongoDB  MongoDBConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - публикация событий отзывов. Пустой список брокеров отключает публикацию.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// GoogleConfig - Google Places. Без APIKey интеграция выключена.
type GoogleConfig struct {
	APIKey    string
	BaseURL   string
	RateLimit int           // Запросов в секунду
	CacheTTL  time.Duration // Время жизни ответа Place Details в Redis
	Timeout   time.Duration
}

type SyncConfig struct {
	Schedule   string // Расписание cron для синхронизации отзывов Google
	HealthPort string
}

type CORSConfig struct {
	AllowedOrigins []string
	SecureCookie   bool
}

type LogConfig struct {
	Level        string
	LogstashAddr string
}

// Load загружает конфигурацию из переменных окружения.
// Некорректные числа и длительности возвращаются ошибкой.
func Load() (*Config, error) {
	var errs []string
	intVar := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		v, err := getEnvDuration(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8083"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
			Database: DatabaseConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnv("DB_PORT", "5432"),
				User:     getEnv("DB_USER", "postgres"),
				Password: getEnv("DB_PASSWORD", "postgres"),
				DBName:   getEnv("DB_NAME", "flex_reviews"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
			},
			MongoDB: MongoDBConfig{
				URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
				Database: getEnv("MONGODB_DATABASE", "flex_reviews"),
			},
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       intVar("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "review_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
			TTL:    durationVar("JWT_TTL", 24*time.Hour),
		},
		Google: GoogleConfig{
			APIKey:    getEnv("GOOGLE_PLACES_API_KEY", ""),
			BaseURL:   getEnv("GOOGLE_PLACES_BASE_URL", ""),
			RateLimit: intVar("GOOGLE_PLACES_RATE_LIMIT", 1),
			CacheTTL:  durationVar("GOOGLE_CACHE_TTL", 24*time.Hour),
			Timeout:   durationVar("GOOGLE_PLACES_TIMEOUT", 10*time.Second),
		},
		Sync: SyncConfig{
			Schedule:   getEnv("SYNC_SCHEDULE", "0 3 * * *"),
			HealthPort: getEnv("SYNC_HEALTH_PORT", "8080"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			SecureCookie:   getEnv("SESSION_COOKIE_SECURE", "false") == "true",
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: getEnv("LOGSTASH_ADDR", ""),
		},
	}

	if cfg.Storage.Driver != StorageDriverPostgres && cfg.Storage.Driver != StorageDriverMongo {
		errs = append(errs, fmt.Sprintf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMongo, cfg.Storage.Driver))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL - та же строка подключения в виде URL для pgxpool
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *GoogleConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return intValue, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a duration, got %q", key, value)
	}
	return d, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
