package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"sprint-review.backend/internal/interfaces/http/response"
	"sprint-review.backend/internal/usecases"
)

// SprintHandler handles sprint endpoints
type SprintHandler struct {
	sprints *usecases.SprintUsecase
}

// NewSprintHandler creates a new sprint handler
func NewSprintHandler(sprints *usecases.SprintUsecase) *SprintHandler {
	return &SprintHandler{sprints: sprints}
}

// ListSprints lists all sprints
// GET /api/v1/sprints
func (h *SprintHandler) ListSprints(c *gin.Context) {
	sprints, err := h.sprints.ListSprints(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sprints": sprints})
}

// GetSprint gets a sprint by id
// GET /api/v1/sprints/:sprintId
func (h *SprintHandler) GetSprint(c *gin.Context) {
	sprint, err := h.sprints.GetSprint(c.Request.Context(), c.Param("sprintId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sprint)
}
