package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
	"bookstore/bookstore-service/internal/app/bookstore/infrastructure"
	"bookstore/bookstore-service/internal/app/bookstore/repository"
	"bookstore/pkg/logger"
	"bookstore/pkg/metrics"

	"github.com/go-playground/validator/v10"
)

// ReviewService обрабатывает бизнес-логику отзывов.
// Координирует журнал отзывов, каталог и публикацию событий.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
	publisher  infrastructure.MessagePublisher
	validate   *validator.Validate
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookRepo repository.BookRepository,
	publisher infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		publisher:  publisher,
		validate:   validator.New(),
	}
}

// GetReviewsByBook возвращает отзывы о книге в порядке добавления.
// Пустой список считается отсутствием ресурса.
func (s *ReviewService) GetReviewsByBook(ctx context.Context, isbn string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}

	return reviews, nil
}

// UpsertReview создает отзыв пользователя о книге или заменяет его оценку и текст.
// Второй результат true, если отзыв создан.
func (s *ReviewService) UpsertReview(ctx context.Context, isbn string, userID int64, username string, req *entity.UpsertReviewRequest) (*entity.Review, bool, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, false, validationError(err)
	}

	if _, err := s.bookRepo.GetByISBN(ctx, isbn); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, false, ErrBookNotFound
		}
		return nil, false, fmt.Errorf("failed to get book: %w", err)
	}

	review, created, err := s.reviewRepo.Upsert(ctx, &entity.Review{
		ISBN:     isbn,
		UserID:   userID,
		Username: username,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to save review: %w", err)
	}

	metrics.RecordReviewUpsert(created, review.Rating)

	eventType := entity.EventReviewUpdated
	if created {
		eventType = entity.EventReviewCreated
	}
	s.publishReviewEvent(ctx, eventType, review)

	logger.Info().
		Int64("review_id", review.ID).
		Str("isbn", isbn).
		Int64("user_id", userID).
		Bool("created", created).
		Msg("Review saved")

	return review, created, nil
}

// DeleteReview удаляет отзыв, если он принадлежит пользователю
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID int64, userID int64) (*entity.Review, error) {
	review, err := s.reviewRepo.DeleteOwned(ctx, reviewID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReviewNotFound):
			return nil, ErrReviewNotFound
		case errors.Is(err, repository.ErrNotOwner):
			metrics.ReviewsForbidden.Inc()
			logger.Warn().Int64("review_id", reviewID).Int64("user_id", userID).Msg("Attempt to delete another user's review")
			return nil, ErrForbidden
		default:
			return nil, fmt.Errorf("failed to delete review: %w", err)
		}
	}

	metrics.RecordReviewDeleted()
	s.publishReviewEvent(ctx, entity.EventReviewDeleted, review)

	logger.Info().Int64("review_id", review.ID).Str("isbn", review.ISBN).Msg("Review deleted")

	return review, nil
}

// publishReviewEvent отправляет событие в Kafka. Ошибка публикации не отменяет изменение.
func (s *ReviewService) publishReviewEvent(ctx context.Context, eventType string, review *entity.Review) {
	event := entity.ReviewEvent{
		EventType: eventType,
		ReviewID:  review.ID,
		ISBN:      review.ISBN,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Sequence:  review.Sequence,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("Failed to marshal review event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, review.ISBN, data); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Int64("review_id", review.ID).Msg("Failed to publish review event")
	}
}
