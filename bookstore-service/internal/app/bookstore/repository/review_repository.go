package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
)

// reviewSlot - составной ключ уникальности отзыва
type reviewSlot struct {
	isbn   string
	userID int64
}

// reviewRepository хранит отзывы в порядке добавления.
// Все изменения идут под одной блокировкой на запись: поиск слота и
// создание/обновление/удаление выполняются как одна операция.
type reviewRepository struct {
	mu      sync.RWMutex
	reviews []*entity.Review
	slots   map[reviewSlot]*entity.Review
	seq     map[string]int64
	nextID  int64
	now     func() time.Time
}

// NewReviewRepository создает пустой журнал отзывов в памяти
func NewReviewRepository() ReviewRepository {
	return &reviewRepository{
		slots:  make(map[reviewSlot]*entity.Review),
		seq:    make(map[string]int64),
		nextID: 1,
		now:    time.Now,
	}
}

// Upsert создает отзыв для пары (ISBN, UserID) или обновляет существующий.
// При обновлении меняются только Rating, Comment и UpdatedAt;
// ID, CreatedAt и Username остаются прежними.
// Возвращает копию сохраненного отзыва и признак создания.
// Каждое изменение получает следующий номер Sequence для своего ISBN.
func (r *reviewRepository) Upsert(ctx context.Context, review *entity.Review) (*entity.Review, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	slot := reviewSlot{isbn: review.ISBN, userID: review.UserID}

	if existing, ok := r.slots[slot]; ok {
		existing.Rating = review.Rating
		existing.Comment = review.Comment
		existing.UpdatedAt = now
		existing.Sequence = r.nextSequence(review.ISBN)

		updated := *existing
		return &updated, false, nil
	}

	stored := &entity.Review{
		ID:        r.nextID,
		ISBN:      review.ISBN,
		UserID:    review.UserID,
		Username:  review.Username,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: now,
		UpdatedAt: now,
		Sequence:  r.nextSequence(review.ISBN),
	}
	r.nextID++

	r.reviews = append(r.reviews, stored)
	r.slots[slot] = stored

	created := *stored
	return &created, true, nil
}

// GetByISBN возвращает снимок отзывов о книге в порядке добавления
func (r *reviewRepository) GetByISBN(ctx context.Context, isbn string) ([]entity.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entity.Review, 0)
	for _, review := range r.reviews {
		if review.ISBN == isbn {
			result = append(result, *review)
		}
	}

	return result, nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*entity.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrReviewNotFound
	}

	review := *r.reviews[idx]
	return &review, nil
}

// DeleteOwned удаляет отзыв, только если он принадлежит userID.
// Идентификаторы остальных отзывов не меняются.
func (r *reviewRepository) DeleteOwned(ctx context.Context, id int64, userID int64) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrReviewNotFound
	}

	target := r.reviews[idx]
	if target.UserID != userID {
		return nil, ErrNotOwner
	}

	r.reviews = slices.Delete(r.reviews, idx, idx+1)
	delete(r.slots, reviewSlot{isbn: target.ISBN, userID: target.UserID})

	removed := *target
	removed.Sequence = r.nextSequence(target.ISBN)
	return &removed, nil
}

// nextSequence вызывается только под блокировкой на запись
func (r *reviewRepository) nextSequence(isbn string) int64 {
	r.seq[isbn]++
	return r.seq[isbn]
}

func (r *reviewRepository) indexOf(id int64) int {
	for i, review := range r.reviews {
		if review.ID == id {
			return i
		}
	}
	return -1
}
