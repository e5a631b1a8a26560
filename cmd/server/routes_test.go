package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"sprint-review.backend/internal/interfaces/http/handlers"
	"sprint-review.backend/internal/interfaces/http/middleware"
	"sprint-review.backend/pkg/jwt"
)

func newTestRouter(auth gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		teamHandler:    &handlers.TeamHandler{},
		studentHandler: &handlers.StudentHandler{},
		reviewHandler:  &handlers.ReviewHandler{},
		sprintHandler:  &handlers.SprintHandler{},
		authMiddleware: auth,
	})
	return r
}

func TestRegisterAPIV1Routes_RegistersKeyRoutes(t *testing.T) {
	r := newTestRouter(func(c *gin.Context) { c.Next() })

	expects := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/teams/roster"},
		{"GET", "/api/v1/teams"},
		{"GET", "/api/v1/teams/:teamId"},
		{"POST", "/api/v1/students"},
		{"GET", "/api/v1/students"},
		{"GET", "/api/v1/students/:computingId"},
		{"DELETE", "/api/v1/students/:computingId"},
		{"POST", "/api/v1/students/:computingId/link"},
		{"GET", "/api/v1/students/:computingId/progress"},
		{"POST", "/api/v1/reviews"},
		{"GET", "/api/v1/sprints"},
		{"GET", "/api/v1/sprints/:sprintId"},
		{"GET", "/health"},
		{"GET", "/metrics"},
	}

	routes := r.Routes()
	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestRegisterHealthRoute(t *testing.T) {
	r := newTestRouter(func(c *gin.Context) { c.Next() })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "sprint-review-backend" {
		t.Fatalf("unexpected health payload: %+v", body)
	}
}

func TestRegisterMetricsRoute(t *testing.T) {
	r := newTestRouter(func(c *gin.Context) { c.Next() })

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("expected prometheus exposition, got %q", rec.Body.String())
	}
}

func TestAPIRoutesRequireToken(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Hour)
	r := newTestRouter(middleware.AuthMiddleware(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sprints", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProfessorRoutesRejectStudents(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Hour)
	r := newTestRouter(middleware.AuthMiddleware(svc, nil))

	token, err := svc.GenerateAccessToken("uid-a", "a1", "a1@example.edu", jwt.RoleStudent)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams?sprintId=s1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
