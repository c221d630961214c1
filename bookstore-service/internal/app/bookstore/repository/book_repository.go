package repository

import (
	"context"
	"strings"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
)

// DefaultBooks возвращает каталог, с которым стартует сервис
func DefaultBooks() []entity.Book {
	return []entity.Book{
		{
			ISBN:        "9780123456789",
			Title:       "Node.js Fundamentals",
			Author:      "John Developer",
			Price:       29.99,
			Description: "A comprehensive guide to Node.js development",
		},
		{
			ISBN:        "9780987654321",
			Title:       "Express.js in Action",
			Author:      "Jane Programmer",
			Price:       24.99,
			Description: "Learn how to build web applications with Express.js",
		},
		{
			ISBN:        "9781122334455",
			Title:       "Modern JavaScript",
			Author:      "John Developer",
			Price:       34.99,
			Description: "Advanced JavaScript techniques for modern web development",
		},
	}
}

// bookRepository не меняется после создания, поэтому обходится без блокировок
type bookRepository struct {
	books  []entity.Book
	byISBN map[string]int
}

// NewBookRepository создает каталог из переданных книг.
// При повторе ISBN остается первая запись.
func NewBookRepository(books []entity.Book) BookRepository {
	r := &bookRepository{
		books:  make([]entity.Book, 0, len(books)),
		byISBN: make(map[string]int, len(books)),
	}
	for _, b := range books {
		if _, ok := r.byISBN[b.ISBN]; ok {
			continue
		}
		r.byISBN[b.ISBN] = len(r.books)
		r.books = append(r.books, b)
	}
	return r
}

func (r *bookRepository) GetAll(ctx context.Context) ([]entity.Book, error) {
	out := make([]entity.Book, len(r.books))
	copy(out, r.books)
	return out, nil
}

func (r *bookRepository) GetByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	idx, ok := r.byISBN[isbn]
	if !ok {
		return nil, ErrBookNotFound
	}
	book := r.books[idx]
	return &book, nil
}

// FindByAuthor ищет подстроку в имени автора без учета регистра
func (r *bookRepository) FindByAuthor(ctx context.Context, author string) ([]entity.Book, error) {
	return r.filter(func(b entity.Book) string { return b.Author }, author), nil
}

// FindByTitle ищет подстроку в названии без учета регистра
func (r *bookRepository) FindByTitle(ctx context.Context, title string) ([]entity.Book, error) {
	return r.filter(func(b entity.Book) string { return b.Title }, title), nil
}

func (r *bookRepository) filter(field func(entity.Book) string, query string) []entity.Book {
	needle := strings.ToLower(query)
	result := make([]entity.Book, 0)
	for _, b := range r.books {
		if strings.Contains(strings.ToLower(field(b)), needle) {
			result = append(result, b)
		}
	}
	return result
}
