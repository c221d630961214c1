package handler

import (
	"errors"
	"net/http"
	"strings"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
	"bookstore/bookstore-service/internal/app/bookstore/service"
	"bookstore/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{service.ErrUserExists, http.StatusBadRequest, "User already exists"},
	{service.ErrInvalidCredentials, http.StatusBadRequest, "Invalid email or password"},
	{service.ErrMissingToken, http.StatusUnauthorized, "Access denied"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
	{service.ErrForbidden, http.StatusForbidden, "Not authorized to delete this review"},
	{service.ErrBookNotFound, http.StatusNotFound, "Book not found"},
	{service.ErrNoBooksByAuthor, http.StatusNotFound, "No books found for this author"},
	{service.ErrNoBooksByTitle, http.StatusNotFound, "No books found with this title"},
	{service.ErrNoBooksFound, http.StatusNotFound, "No books found"},
	{service.ErrNoReviews, http.StatusNotFound, "No reviews found for this book"},
	{service.ErrReviewNotFound, http.StatusNotFound, "Review not found"},
}

// respondError переводит ошибку сервиса в HTTP ответ.
// Неизвестные ошибки логируются и отдаются как 500 без подробностей.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrValidation) {
		writeError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			writeError(c, m.status, m.message)
			return
		}
	}

	logger.Error().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("path", c.FullPath()).
		Msg("Request failed")
	writeError(c, http.StatusInternalServerError, "Server error")
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	if msg == "" || msg == err.Error() {
		return "Validation failed"
	}
	return "Invalid fields: " + msg
}

// formatValidationError строит сообщение по первой ошибке validator.
// Незаполненное поле дает общее сообщение обработчика.
func formatValidationError(err error, fallback string) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		if fe := validationErrors[0]; fe.Tag() != "required" {
			return fe.Field() + " is invalid"
		}
	}
	return fallback
}
