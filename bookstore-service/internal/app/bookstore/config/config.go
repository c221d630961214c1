package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrMissingJWTSecret возвращается, если секрет подписи токенов не задан
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Config содержит все настройки Bookstore Service
type Config struct {
	Server ServerConfig
	JWT    JWTConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Kafka  KafkaConfig
	CORS   CORSConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 3000)
}

// JWTConfig - настройки сессионных токенов
type JWTConfig struct {
	Secret   string        // Секрет подписи HS256, обязателен
	TokenTTL time.Duration // Время жизни токена (по умолчанию 1h)
}

// RedisConfig - настройки Redis для кеша каталога.
// Пустой Addr отключает кеш.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig - параметры кеширования каталога
type CacheConfig struct {
	TTL             time.Duration // TTL записей кеша
	RefreshSchedule string        // cron-расписание прогрева кеша
}

// KafkaConfig - настройки Kafka для событий отзывов.
// Пустой список брокеров отключает публикацию.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// CORSConfig - разрешённые источники для браузерных клиентов
type CORSConfig struct {
	AllowedOrigins []string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}

	tokenTTL, err := time.ParseDuration(getEnv("JWT_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if tokenTTL <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL: must be positive, got %s", tokenTTL)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	schedule := getEnv("CACHE_REFRESH_SCHEDULE", "*/10 * * * *")
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid CACHE_REFRESH_SCHEDULE: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", "3000"),
		},
		JWT: JWTConfig{
			Secret:   secret,
			TokenTTL: tokenTTL,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TTL:             cacheTTL,
			RefreshSchedule: schedule,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "review_events"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
	}, nil
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// CacheEnabled сообщает, настроен ли Redis
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}

// EventsEnabled сообщает, настроены ли брокеры Kafka
func (c *Config) EventsEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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
