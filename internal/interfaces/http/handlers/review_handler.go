package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/interfaces/http/middleware"
	"sprint-review.backend/internal/interfaces/http/response"
	"sprint-review.backend/internal/usecases"
)

// ReviewHandler handles review submission
type ReviewHandler struct {
	reviews *usecases.ReviewUsecase
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *usecases.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// SubmitReview records or replaces the caller's review of a teammate
// POST /api/v1/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var input entities.SubmitReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}
	if !middleware.IsSelfOrProfessor(c, input.ReviewerID) {
		response.Error(c, domainerrors.Forbidden("Reviews can only be submitted as yourself"))
		return
	}

	review, err := h.reviews.SubmitReview(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, review)
}
