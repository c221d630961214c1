package service

import (
	"context"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
	"bookstore/bookstore-service/internal/app/bookstore/util"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.User, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error)
	ValidateToken(token string) (*util.SessionClaims, error)
}

type CatalogServiceInterface interface {
	GetAllBooks(ctx context.Context) ([]entity.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*entity.Book, error)
	GetBooksByAuthor(ctx context.Context, author string) ([]entity.Book, error)
	GetBooksByTitle(ctx context.Context, title string) ([]entity.Book, error)
	WarmCache(ctx context.Context) error
}

type ReviewServiceInterface interface {
	GetReviewsByBook(ctx context.Context, isbn string) ([]entity.Review, error)
	UpsertReview(ctx context.Context, isbn string, userID int64, username string, req *entity.UpsertReviewRequest) (*entity.Review, bool, error)
	DeleteReview(ctx context.Context, reviewID int64, userID int64) (*entity.Review, error)
}
