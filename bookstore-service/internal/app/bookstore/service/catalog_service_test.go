package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
	"bookstore/bookstore-service/internal/app/bookstore/repository"
	"bookstore/bookstore-service/internal/app/bookstore/repository/mocks"
	"bookstore/bookstore-service/internal/app/bookstore/util"

	"bookstore/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService() *CatalogService {
	return NewCatalogService(repository.NewBookRepository(repository.DefaultBooks()), nil, time.Minute)
}

func TestGetAllBooks_WithoutCache(t *testing.T) {
	service := newTestCatalogService()

	books, err := service.GetAllBooks(context.Background())

	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestGetAllBooks_RecordsLookup(t *testing.T) {
	service := newTestCatalogService()
	before := testutil.ToFloat64(metrics.CatalogLookups.WithLabelValues("all", "found"))

	_, err := service.GetAllBooks(context.Background())

	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CatalogLookups.WithLabelValues("all", "found")))
}

func TestGetBookByISBN(t *testing.T) {
	service := newTestCatalogService()

	book, err := service.GetBookByISBN(context.Background(), "9781122334455")
	require.NoError(t, err)
	assert.Equal(t, "Modern JavaScript", book.Title)

	book, err = service.GetBookByISBN(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.Nil(t, book)
}

func TestSearchBooks(t *testing.T) {
	service := newTestCatalogService()
	ctx := context.Background()

	testCases := []struct {
		name    string
		search  func(context.Context, string) ([]entity.Book, error)
		query   string
		want    int
		wantErr error
	}{
		{"author match", service.GetBooksByAuthor, "john", 2, nil},
		{"author no match", service.GetBooksByAuthor, "tolkien", 0, ErrNoBooksByAuthor},
		{"title match", service.GetBooksByTitle, "EXPRESS", 1, nil},
		{"title no match", service.GetBooksByTitle, "rust", 0, ErrNoBooksByTitle},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			books, err := tc.search(ctx, tc.query)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.ErrorIs(t, err, ErrNoBooksFound)
				assert.Nil(t, books)
				return
			}
			require.NoError(t, err)
			assert.Len(t, books, tc.want)
		})
	}
}

func TestGetAllBooks_CacheHitSkipsRepository(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	cache := new(mocks.MockBookCache)
	service := NewCatalogService(bookRepo, cache, time.Minute)

	ctx := context.Background()
	cached := []entity.Book{{ISBN: "1", Title: "cached"}}
	cache.On("GetBooks", ctx, util.AllBooksKey).Return(cached, nil)

	books, err := service.GetAllBooks(ctx)

	require.NoError(t, err)
	assert.Equal(t, cached, books)
	bookRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestGetAllBooks_CacheErrorFallsBackToRepository(t *testing.T) {
	bookRepo := new(mocks.MockBookRepository)
	cache := new(mocks.MockBookCache)
	service := NewCatalogService(bookRepo, cache, time.Minute)

	ctx := context.Background()
	books := []entity.Book{{ISBN: "1"}}
	cache.On("GetBooks", ctx, util.AllBooksKey).Return(nil, errors.New("redis down"))
	cache.On("SetBooks", ctx, util.AllBooksKey, books, time.Minute).Return(errors.New("redis down"))
	bookRepo.On("GetAll", ctx).Return(books, nil)

	result, err := service.GetAllBooks(ctx)

	require.NoError(t, err)
	assert.Equal(t, books, result)
}

func TestSearchBooks_UsesRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	service := NewCatalogService(
		repository.NewBookRepository(repository.DefaultBooks()),
		util.NewRedisBookCacheWithClient(client),
		time.Minute,
	)
	ctx := context.Background()

	books, err := service.GetBooksByAuthor(ctx, "Jane")
	require.NoError(t, err)
	require.Len(t, books, 1)

	assert.True(t, mr.Exists(util.AuthorKey("jane")))
	ttl := mr.TTL(util.AuthorKey("jane"))
	assert.Equal(t, time.Minute, ttl)

	// Второй запрос с другим регистром попадает в тот же ключ
	again, err := service.GetBooksByAuthor(ctx, "JANE")
	require.NoError(t, err)
	assert.Equal(t, books, again)
}

func TestWarmCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	service := NewCatalogService(
		repository.NewBookRepository(repository.DefaultBooks()),
		util.NewRedisBookCacheWithClient(client),
		time.Minute,
	)

	require.NoError(t, service.WarmCache(context.Background()))
	assert.True(t, mr.Exists(util.AllBooksKey))

	// Без кеша прогрев ничего не делает
	assert.NoError(t, newTestCatalogService().WarmCache(context.Background()))
}
