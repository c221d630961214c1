package entity

import "time"

// Book - неизменяемая запись каталога, ISBN является первичным ключом
type Book struct {
	ISBN        string  `json:"isbn"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// User - зарегистрированный пользователь
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // не возвращаем в JSON
}

// Review - отзыв пользователя о книге.
// На пару (ISBN, UserID) приходится не больше одного отзыва.
type Review struct {
	ID        int64     `json:"id"`
	ISBN      string    `json:"isbn"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"` // снимок имени на момент создания
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Sequence - номер последнего изменения отзывов этой книги в журнале
	Sequence int64 `json:"-"`
}

const (
	EventReviewCreated = "REVIEW_CREATED"
	EventReviewUpdated = "REVIEW_UPDATED"
	EventReviewDeleted = "REVIEW_DELETED"
)

// ReviewEvent публикуется в Kafka при каждом изменении отзыва
type ReviewEvent struct {
	EventType string    `json:"event_type"`
	ReviewID  int64     `json:"review_id"`
	ISBN      string    `json:"isbn"`
	UserID    int64     `json:"user_id"`
	Rating    float64   `json:"rating"`
	Sequence  int64     `json:"sequence"` // растет на каждое изменение отзывов книги
	Timestamp time.Time `json:"timestamp"`
}
