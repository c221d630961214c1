package repository

import (
	"context"
	"errors"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrBookNotFound   = errors.New("book not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrReviewNotFound = errors.New("review not found")
	ErrNotOwner       = errors.New("review belongs to another user")
)

// BookRepository - статический каталог книг, только чтение
type BookRepository interface {
	GetAll(ctx context.Context) ([]entity.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*entity.Book, error)
	FindByAuthor(ctx context.Context, author string) ([]entity.Book, error)
	FindByTitle(ctx context.Context, title string) ([]entity.Book, error)
}

// UserRepository - хранилище учётных записей.
// Create атомарно проверяет уникальность email и назначает ID.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
}

// ReviewRepository - журнал отзывов.
// Upsert и DeleteOwned выполняются атомарно относительно друг друга.
type ReviewRepository interface {
	Upsert(ctx context.Context, review *entity.Review) (*entity.Review, bool, error)
	GetByISBN(ctx context.Context, isbn string) ([]entity.Review, error)
	GetByID(ctx context.Context, id int64) (*entity.Review, error)
	DeleteOwned(ctx context.Context, id int64, userID int64) (*entity.Review, error)
}
