package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/interfaces/http/response"
	"sprint-review.backend/internal/usecases"
)

const maxRosterUploadBytes = 5 << 20

// TeamHandler handles roster import and team views
type TeamHandler struct {
	membership *usecases.MembershipUsecase
	queries    *usecases.RosterQueryUsecase
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(membership *usecases.MembershipUsecase, queries *usecases.RosterQueryUsecase) *TeamHandler {
	return &TeamHandler{membership: membership, queries: queries}
}

// ImportRoster uploads a roster CSV in the "file" form field
// POST /api/v1/teams/roster
func (h *TeamHandler) ImportRoster(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRosterUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("roster file is required in form field \"file\""))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, domainerrors.BadRequest("roster file could not be read"))
		return
	}
	defer file.Close()

	rows, err := usecases.ReadRosterCSV(file)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.membership.ImportRoster(c.Request.Context(), rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if result.StudentsWritten == 0 {
		status = http.StatusUnprocessableEntity
	}
	response.Success(c, status, result)
}

type teamSearchQuery struct {
	SprintID string `form:"sprintId" binding:"required"`
	Search   string `form:"search"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// SearchTeams ranks teams by risk for one sprint
// GET /api/v1/teams?sprintId=&search=&page=&pageSize=
func (h *TeamHandler) SearchTeams(c *gin.Context) {
	var q teamSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	page, err := h.queries.SearchTeamsBySprint(c.Request.Context(), q.SprintID, q.Search, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"teams":       page.Teams,
		"total":       page.Total,
		"hasNextPage": page.HasNextPage,
		"page":        q.Page,
		"pageSize":    q.PageSize,
	})
}

// GetTeam gets a team by id
// GET /api/v1/teams/:teamId
func (h *TeamHandler) GetTeam(c *gin.Context) {
	team, err := h.queries.GetTeam(c.Request.Context(), entities.TeamID(c.Param("teamId")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, team)
}
