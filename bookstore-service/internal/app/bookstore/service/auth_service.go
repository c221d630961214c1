package service

import (
	"context"
	"errors"
	"fmt"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
	"bookstore/bookstore-service/internal/app/bookstore/repository"
	"bookstore/bookstore-service/internal/app/bookstore/util"
	"bookstore/pkg/logger"
	"bookstore/pkg/metrics"

	"github.com/go-playground/validator/v10"
)

// AuthService обрабатывает регистрацию, вход и проверку токенов сессии
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *util.JWTManager
	validate   *validator.Validate
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtManager *util.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		validate:   validator.New(),
	}
}

// Register регистрирует нового пользователя.
// Проверка уникальности email и вставка выполняются репозиторием атомарно.
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.AuthRegistrations.Inc()
	logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")

	return user, nil
}

// Login проверяет учетные данные и выпускает токен сессии.
// Неизвестный email и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()

	return &entity.LoginResponse{
		Message: "Logged in successfully",
		Token:   token,
		User:    entity.NewUserResponse(user),
	}, nil
}

// ValidateToken переводит ошибки JWT в ошибки сервиса.
// Истекший токен считается недействительным.
func (s *AuthService) ValidateToken(token string) (*util.SessionClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMissingToken):
			metrics.AuthTokensRejected.WithLabelValues("missing").Inc()
			return nil, ErrMissingToken
		case errors.Is(err, util.ErrExpiredToken):
			metrics.AuthTokensRejected.WithLabelValues("expired").Inc()
		default:
			metrics.AuthTokensRejected.WithLabelValues("invalid").Inc()
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
