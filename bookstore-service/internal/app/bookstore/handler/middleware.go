package handler

import (
	"errors"
	"strings"

	"bookstore/bookstore-service/internal/app/bookstore/service"
	"bookstore/bookstore-service/internal/app/bookstore/util"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
)

// TokenValidator проверяет токен сессии
type TokenValidator interface {
	ValidateToken(token string) (*util.SessionClaims, error)
}

// AuthMiddleware проверяет Bearer токен и кладет пользователя в контекст Gin
type AuthMiddleware struct {
	validator TokenValidator
}

func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Authenticate пропускает запрос дальше только с действительным токеном.
// Нет заголовка или пустой токен дают ErrMissingToken, остальное ErrInvalidToken.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			respondError(c, service.ErrMissingToken)
			return
		}

		scheme, token, _ := strings.Cut(authHeader, " ")
		if scheme != "Bearer" {
			respondError(c, service.ErrInvalidToken)
			return
		}

		claims, err := m.validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			if !errors.Is(err, service.ErrMissingToken) && !errors.Is(err, service.ErrInvalidToken) {
				err = service.ErrInvalidToken
			}
			respondError(c, err)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)

		c.Next()
	}
}

// currentUser достает пользователя, записанного Authenticate
func currentUser(c *gin.Context) (int64, string, bool) {
	userID, ok := c.Get(ctxUserID)
	if !ok {
		return 0, "", false
	}
	id, ok := userID.(int64)
	if !ok {
		return 0, "", false
	}
	return id, c.GetString(ctxUsername), true
}
