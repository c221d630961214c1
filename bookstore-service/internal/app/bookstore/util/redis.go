package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
	"bookstore/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	cacheService = "bookstore-service"

	keyPrefix       = "books"
	AllBooksKey     = keyPrefix + ":all"
	authorKeyPrefix = keyPrefix + ":author:"
	titleKeyPrefix  = keyPrefix + ":title:"
)

// AuthorKey ключ кеша для поиска по автору. Поиск регистронезависимый, поэтому ключ в нижнем регистре.
func AuthorKey(query string) string {
	return authorKeyPrefix + strings.ToLower(query)
}

// TitleKey ключ кеша для поиска по названию
func TitleKey(query string) string {
	return titleKeyPrefix + strings.ToLower(query)
}

type RedisBookCache struct {
	client *redis.Client
}

func NewRedisBookCache(addr, password string, db int) (*RedisBookCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBookCache{client: client}, nil
}

// NewRedisBookCacheWithClient оборачивает готовый клиент
func NewRedisBookCacheWithClient(client *redis.Client) *RedisBookCache {
	return &RedisBookCache{client: client}
}

func (r *RedisBookCache) SetBooks(ctx context.Context, key string, books []entity.Book, ttl time.Duration) error {
	timer := metrics.NewRedisTimer(cacheService, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("failed to marshal books: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(cacheService, metrics.RedisOpSet)
		return fmt.Errorf("failed to set books in cache: %w", err)
	}

	return nil
}

func (r *RedisBookCache) GetBooks(ctx context.Context, key string) ([]entity.Book, error) {
	timer := metrics.NewRedisTimer(cacheService, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(cacheService, keyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(cacheService, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get books from cache: %w", err)
	}

	var books []entity.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to unmarshal books: %w", err)
	}

	metrics.RecordCacheHit(cacheService, keyPrefix)
	return books, nil
}

func (r *RedisBookCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	timer := metrics.NewRedisTimer(cacheService, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		metrics.RecordRedisError(cacheService, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete books from cache: %w", err)
	}
	return nil
}

func (r *RedisBookCache) Close() error {
	return r.client.Close()
}
