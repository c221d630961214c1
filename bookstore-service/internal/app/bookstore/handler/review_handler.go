package handler

import (
	"net/http"
	"strconv"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
	"bookstore/bookstore-service/internal/app/bookstore/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

func (h *ReviewHandler) GetReviewsByBook(c *gin.Context) {
	reviews, err := h.reviewService.GetReviewsByBook(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// UpsertReview отвечает 201 при создании отзыва и 200 при замене существующего
func (h *ReviewHandler) UpsertReview(c *gin.Context) {
	userID, username, ok := currentUser(c)
	if !ok {
		respondError(c, service.ErrMissingToken)
		return
	}

	var req entity.UpsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, formatValidationError(err, "Rating and comment are required"))
		return
	}

	review, created, err := h.reviewService.UpsertReview(c.Request.Context(), c.Param("isbn"), userID, username, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, entity.ReviewResponse{Message: "Review added successfully", Review: *review})
		return
	}
	c.JSON(http.StatusOK, entity.ReviewResponse{Message: "Review updated successfully", Review: *review})
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		respondError(c, service.ErrMissingToken)
		return
	}

	// Нечисловой id не может совпасть ни с одним отзывом
	reviewID, err := strconv.ParseInt(c.Param("reviewId"), 10, 64)
	if err != nil {
		respondError(c, service.ErrReviewNotFound)
		return
	}

	review, err := h.reviewService.DeleteReview(c.Request.Context(), reviewID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ReviewResponse{Message: "Review deleted successfully", Review: *review})
}
