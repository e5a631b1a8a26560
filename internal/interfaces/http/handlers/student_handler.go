package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/interfaces/http/middleware"
	"sprint-review.backend/internal/interfaces/http/response"
	"sprint-review.backend/internal/usecases"
	"sprint-review.backend/pkg/jwt"
)

// StudentHandler handles student endpoints
type StudentHandler struct {
	membership *usecases.MembershipUsecase
	queries    *usecases.RosterQueryUsecase
	accounts   *usecases.AccountUsecase
	sprints    *usecases.SprintUsecase
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(
	membership *usecases.MembershipUsecase,
	queries *usecases.RosterQueryUsecase,
	accounts *usecases.AccountUsecase,
	sprints *usecases.SprintUsecase,
) *StudentHandler {
	return &StudentHandler{
		membership: membership,
		queries:    queries,
		accounts:   accounts,
		sprints:    sprints,
	}
}

// AddStudent adds one student to a team
// POST /api/v1/students
func (h *StudentHandler) AddStudent(c *gin.Context) {
	var input entities.RosterRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	student, err := h.membership.AddStudent(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, student)
}

type studentSearchQuery struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1" binding:"min=1"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
}

// SearchStudents lists students matching search
// GET /api/v1/students?search=&page=&limit=
func (h *StudentHandler) SearchStudents(c *gin.Context) {
	var q studentSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	result, err := h.queries.SearchStudents(c.Request.Context(), q.Search, q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetStudent gets one student
// GET /api/v1/students/:computingId
func (h *StudentHandler) GetStudent(c *gin.Context) {
	computingID := c.Param("computingId")
	if !middleware.IsSelfOrProfessor(c, computingID) {
		response.Error(c, domainerrors.Forbidden("Insufficient permissions"))
		return
	}

	student, err := h.queries.GetStudent(c.Request.Context(), computingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// RemoveStudent deletes a student and everything that references it
// DELETE /api/v1/students/:computingId
func (h *StudentHandler) RemoveStudent(c *gin.Context) {
	result, err := h.membership.RemoveStudent(c.Request.Context(), c.Param("computingId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// LinkAccount links the caller's account to a student
// POST /api/v1/students/:computingId/link
func (h *StudentHandler) LinkAccount(c *gin.Context) {
	var input entities.LinkAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	role, _ := middleware.GetUserRole(c)
	uid, _ := middleware.GetUID(c)
	if role != jwt.RoleProfessor {
		if input.UID != uid {
			response.Error(c, domainerrors.Forbidden("An account can only link itself"))
			return
		}
		// The verified token email wins over the body.
		if email, ok := middleware.GetUserEmail(c); ok && email != "" {
			input.Email = email
		}
	}

	user, err := h.accounts.LinkAccount(c.Request.Context(), c.Param("computingId"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// GetSprintProgress reports a student's review completion per sprint
// GET /api/v1/students/:computingId/progress
func (h *StudentHandler) GetSprintProgress(c *gin.Context) {
	computingID := c.Param("computingId")
	if !middleware.IsSelfOrProfessor(c, computingID) {
		response.Error(c, domainerrors.Forbidden("Insufficient permissions"))
		return
	}

	progress, err := h.sprints.StudentSprintProgress(c.Request.Context(), computingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sprints": progress})
}
