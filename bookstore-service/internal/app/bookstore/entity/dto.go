package entity

// RegisterRequest - запрос на регистрацию
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpsertReviewRequest - создание или изменение отзыва текущего пользователя
type UpsertReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required"`
	Comment string  `json:"comment" validate:"required"`
}

// UserResponse - публичное представление пользователя
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterResponse - ответ на успешную регистрацию
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// LoginResponse - ответ с токеном
type LoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// ReviewResponse - ответ с отзывом после изменения
type ReviewResponse struct {
	Message string `json:"message"`
	Review  Review `json:"review"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewUserResponse убирает из пользователя хэш пароля
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
