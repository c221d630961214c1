package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrBookNotFound       = errors.New("book not found")
	ErrNoBooksFound       = errors.New("no books found")
	ErrNoReviews          = errors.New("no reviews found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrForbidden          = errors.New("access forbidden")
)

// Пустой результат поиска по автору и по названию различается текстом ответа
var (
	ErrNoBooksByAuthor = fmt.Errorf("%w for this author", ErrNoBooksFound)
	ErrNoBooksByTitle  = fmt.Errorf("%w with this title", ErrNoBooksFound)
)
