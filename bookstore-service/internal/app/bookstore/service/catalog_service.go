package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
	"bookstore/bookstore-service/internal/app/bookstore/repository"
	"bookstore/bookstore-service/internal/app/bookstore/util"
	"bookstore/pkg/logger"
	"bookstore/pkg/metrics"
)

// CatalogService отдает книги из статического каталога.
// Если задан кеш, списки и результаты поиска читаются из Redis.
// Ошибки кеша только логируются.
type CatalogService struct {
	bookRepo repository.BookRepository
	cache    util.BookCache
	cacheTTL time.Duration
}

// NewCatalogService создает сервис каталога, cache может быть nil
func NewCatalogService(bookRepo repository.BookRepository, cache util.BookCache, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		bookRepo: bookRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *CatalogService) GetAllBooks(ctx context.Context) ([]entity.Book, error) {
	books, err := s.cached(ctx, util.AllBooksKey, s.bookRepo.GetAll)
	if err != nil {
		return nil, fmt.Errorf("failed to get books: %w", err)
	}

	metrics.RecordCatalogLookup("all", len(books) > 0)
	return books, nil
}

func (s *CatalogService) GetBookByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	book, err := s.bookRepo.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			metrics.RecordCatalogLookup("isbn", false)
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	metrics.RecordCatalogLookup("isbn", true)
	return book, nil
}

// GetBooksByAuthor ищет подстроку в имени автора без учета регистра
func (s *CatalogService) GetBooksByAuthor(ctx context.Context, author string) ([]entity.Book, error) {
	return s.search(ctx, "author", util.AuthorKey(author), ErrNoBooksByAuthor, func(ctx context.Context) ([]entity.Book, error) {
		return s.bookRepo.FindByAuthor(ctx, author)
	})
}

// GetBooksByTitle ищет подстроку в названии без учета регистра
func (s *CatalogService) GetBooksByTitle(ctx context.Context, title string) ([]entity.Book, error) {
	return s.search(ctx, "title", util.TitleKey(title), ErrNoBooksByTitle, func(ctx context.Context) ([]entity.Book, error) {
		return s.bookRepo.FindByTitle(ctx, title)
	})
}

// WarmCache заново кладет полный список книг в кеш
func (s *CatalogService) WarmCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	books, err := s.bookRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to get books: %w", err)
	}

	if err := s.cache.SetBooks(ctx, util.AllBooksKey, books, s.cacheTTL); err != nil {
		return fmt.Errorf("failed to warm catalog cache: %w", err)
	}

	logger.Debug().Int("books", len(books)).Msg("Catalog cache warmed")
	return nil
}

func (s *CatalogService) search(ctx context.Context, kind, key string, notFound error, load func(context.Context) ([]entity.Book, error)) ([]entity.Book, error) {
	books, err := s.cached(ctx, key, load)
	if err != nil {
		return nil, fmt.Errorf("failed to search books by %s: %w", kind, err)
	}

	metrics.RecordCatalogLookup(kind, len(books) > 0)
	if len(books) == 0 {
		return nil, notFound
	}
	return books, nil
}

func (s *CatalogService) cached(ctx context.Context, key string, load func(context.Context) ([]entity.Book, error)) ([]entity.Book, error) {
	if s.cache != nil {
		books, err := s.cache.GetBooks(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to read catalog cache")
		} else if books != nil {
			return books, nil
		}
	}

	books, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBooks(ctx, key, books, s.cacheTTL); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to write catalog cache")
		}
	}

	return books, nil
}
