package util

import (
	"context"
	"time"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
)

// BookCache интерфейс для кеша результатов каталога.
// Промах возвращает (nil, nil).
type BookCache interface {
	GetBooks(ctx context.Context, key string) ([]entity.Book, error)
	SetBooks(ctx context.Context, key string, books []entity.Book, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
