package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"sprint-review.backend/internal/domain/entities"
	domainRepos "sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/internal/infrastructure/datasources"
	"sprint-review.backend/internal/infrastructure/locks"
	infraRepos "sprint-review.backend/internal/infrastructure/repositories"
	"sprint-review.backend/internal/interfaces/http/middleware"
	"sprint-review.backend/internal/usecases"
	"sprint-review.backend/pkg/jwt"
)

type handlerEnv struct {
	router  *gin.Engine
	sprints *infraRepos.SprintRepository
	reviews *infraRepos.ReviewRepository
}

type caller struct {
	uid, studentID, role string
}

var (
	professor = caller{uid: "prof-uid", role: jwt.RoleProfessor}
	studentA  = caller{uid: "uid-a", studentID: "a1", role: jwt.RoleStudent}
)

// newHandlerEnv wires every handler over in-memory sqlite. Callers pick
// their identity with the X-Test-* headers instead of a signed token.
func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, datasources.Migrate(db))

	limits := domainRepos.DefaultStoreLimits
	timeout := 5 * time.Second
	students := infraRepos.NewStudentRepository(db, limits)
	teams := infraRepos.NewTeamRepository(db, limits)
	reviews := infraRepos.NewReviewRepository(db, limits)
	users := infraRepos.NewUserRepository(db)
	sprints := infraRepos.NewSprintRepository(db)
	locker := locks.NewLocalKeyLock()

	writer := usecases.NewBatchWriter(infraRepos.NewUnitOfWork(db), students, teams, reviews, users, limits, timeout)
	membership := usecases.NewMembershipUsecase(students, teams, reviews, users, writer, locker, nil, limits, timeout)
	queries := usecases.NewRosterQueryUsecase(teams, students, usecases.NewReviewAggregator(reviews, limits, timeout), 4, timeout)
	accounts := usecases.NewAccountUsecase(students, users, writer, locker, timeout)
	sprintUC := usecases.NewSprintUsecase(sprints, students, teams, reviews, timeout)
	reviewUC := usecases.NewReviewUsecase(reviews, students, sprints, locker, timeout)

	teamHandler := NewTeamHandler(membership, queries)
	studentHandler := NewStudentHandler(membership, queries, accounts, sprintUC)
	reviewHandler := NewReviewHandler(reviewUC)
	sprintHandler := NewSprintHandler(sprintUC)

	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.UIDKey, c.GetHeader("X-Test-UID"))
		c.Set(middleware.StudentIDKey, c.GetHeader("X-Test-Student"))
		c.Set(middleware.UserRoleKey, c.GetHeader("X-Test-Role"))
		c.Next()
	})
	prof := api.Group("", middleware.RequireProfessor())
	prof.POST("/teams/roster", teamHandler.ImportRoster)
	prof.GET("/teams", teamHandler.SearchTeams)
	prof.GET("/teams/:teamId", teamHandler.GetTeam)
	prof.POST("/students", studentHandler.AddStudent)
	prof.GET("/students", studentHandler.SearchStudents)
	prof.DELETE("/students/:computingId", studentHandler.RemoveStudent)
	api.GET("/students/:computingId", studentHandler.GetStudent)
	api.POST("/students/:computingId/link", studentHandler.LinkAccount)
	api.GET("/students/:computingId/progress", studentHandler.GetSprintProgress)
	api.POST("/reviews", reviewHandler.SubmitReview)
	api.GET("/sprints", sprintHandler.ListSprints)
	api.GET("/sprints/:sprintId", sprintHandler.GetSprint)

	return &handlerEnv{router: r, sprints: sprints, reviews: reviews}
}

func (e *handlerEnv) do(t *testing.T, who caller, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Test-UID", who.uid)
	req.Header.Set("X-Test-Student", who.studentID)
	req.Header.Set("X-Test-Role", who.role)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *handlerEnv) doJSON(t *testing.T, who caller, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return e.do(t, who, method, path, body, "application/json")
}

func (e *handlerEnv) upload(t *testing.T, who caller, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "roster.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return e.do(t, who, http.MethodPost, "/api/v1/teams/roster", &buf, mw.FormDataContentType())
}

func (e *handlerEnv) seedOpenSprint(t *testing.T, id string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, e.sprints.Upsert(t.Context(), &entities.Sprint{
		ID:            id,
		Name:          "Sprint " + id,
		SprintDueDate: now.Add(-24 * time.Hour),
		ReviewDueDate: now.Add(24 * time.Hour),
	}))
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

const rosterCSV = "Team,Computing ID,Last Name,First Name,Preferred Pronouns,GitHub ID,Discord ID\n" +
	"Team 1,a1,Lovelace,Ada,she/her,ada,\n" +
	"Team-1,b2,Builder,Bob,,bob,\n" +
	"Team 2,c3,Young,Cy,,,\n"
