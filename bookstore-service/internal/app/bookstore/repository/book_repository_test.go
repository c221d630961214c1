package repository

import (
	"context"
	"testing"

	"bookstore/bookstore-service/internal/app/bookstore/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookRepository_GetAll(t *testing.T) {
	repo := NewBookRepository(DefaultBooks())

	books, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, books, 3)
	assert.Equal(t, "9780123456789", books[0].ISBN)
}

func TestBookRepository_GetAllReturnsCopy(t *testing.T) {
	repo := NewBookRepository(DefaultBooks())

	books, _ := repo.GetAll(context.Background())
	books[0].Title = "changed"

	again, _ := repo.GetAll(context.Background())
	assert.Equal(t, "Node.js Fundamentals", again[0].Title)
}

func TestBookRepository_GetByISBN(t *testing.T) {
	repo := NewBookRepository(DefaultBooks())

	book, err := repo.GetByISBN(context.Background(), "9780987654321")
	require.NoError(t, err)
	assert.Equal(t, "Express.js in Action", book.Title)

	_, err = repo.GetByISBN(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookRepository_FindByAuthor(t *testing.T) {
	repo := NewBookRepository(DefaultBooks())

	testCases := []struct {
		name  string
		query string
		want  int
	}{
		{"exact", "John Developer", 2},
		{"lower case substring", "developer", 2},
		{"upper case", "JANE", 1},
		{"no match", "Tolkien", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			books, err := repo.FindByAuthor(context.Background(), tc.query)
			require.NoError(t, err)
			assert.Len(t, books, tc.want)
		})
	}
}

func TestBookRepository_FindByTitle(t *testing.T) {
	repo := NewBookRepository(DefaultBooks())

	books, err := repo.FindByTitle(context.Background(), "node")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "9780123456789", books[0].ISBN)

	books, err = repo.FindByTitle(context.Background(), "javascript")
	require.NoError(t, err)
	assert.Len(t, books, 1)

	books, err = repo.FindByTitle(context.Background(), "rust")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBookRepository_DuplicateISBNKeepsFirst(t *testing.T) {
	repo := NewBookRepository([]entity.Book{
		{ISBN: "1", Title: "first"},
		{ISBN: "1", Title: "second"},
	})

	books, _ := repo.GetAll(context.Background())
	assert.Len(t, books, 1)

	book, err := repo.GetByISBN(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "first", book.Title)
}
