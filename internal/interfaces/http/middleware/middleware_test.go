package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sprint-review.backend/pkg/jwt"
	"sprint-review.backend/pkg/logger"
)

type revocationStub struct {
	revoked map[string]bool
	err     error
}

func (s *revocationStub) IsRevoked(_ context.Context, uid string) (bool, error) {
	return s.revoked[uid], s.err
}

func bearer(t *testing.T, svc *jwt.JWTService, uid, studentID, role string) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(uid, studentID, uid+"@example.edu", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware_BearerFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := jwt.NewJWTService("secret", time.Minute)
	revocations := &revocationStub{revoked: map[string]bool{"gone": true}}

	r := gin.New()
	r.Use(AuthMiddleware(svc, revocations))
	r.GET("/me", func(c *gin.Context) {
		uid, _ := GetUID(c)
		studentID, _ := GetStudentID(c)
		c.String(http.StatusOK, uid+"/"+studentID)
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer invalid", http.StatusUnauthorized},
		{"revoked account", bearer(t, svc, "gone", "x1", jwt.RoleStudent), http.StatusUnauthorized},
		{"valid token", bearer(t, svc, "uid-1", "a1", jwt.RoleStudent), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(AuthorizationHeader, tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, bearer(t, svc, "uid-1", "a1", jwt.RoleStudent))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "uid-1/a1", w.Body.String())
}

func TestAuthMiddleware_RevocationStoreDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := jwt.NewJWTService("secret", time.Minute)

	r := gin.New()
	r.Use(AuthMiddleware(svc, &revocationStub{err: errors.New("redis down")}))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, bearer(t, svc, "uid-1", "", jwt.RoleProfessor))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequireProfessor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := jwt.NewJWTService("secret", time.Minute)

	r := gin.New()
	r.Use(AuthMiddleware(svc, nil), RequireProfessor())
	r.GET("/admin", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for role, status := range map[string]int{
		jwt.RoleProfessor: http.StatusNoContent,
		jwt.RoleStudent:   http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(AuthorizationHeader, bearer(t, svc, "u", "", role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, role)
	}
}

func TestRequireRole_NoRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireRole(jwt.RoleProfessor))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIsSelfOrProfessor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Set(UserRoleKey, jwt.RoleStudent)
	c.Set(StudentIDKey, "a1")
	assert.True(t, IsSelfOrProfessor(c, "a1"))
	assert.False(t, IsSelfOrProfessor(c, "b2"))

	c.Set(UserRoleKey, jwt.RoleProfessor)
	c.Set(StudentIDKey, "")
	assert.True(t, IsSelfOrProfessor(c, "b2"))

	c.Set(UserRoleKey, jwt.RoleStudent)
	assert.False(t, IsSelfOrProfessor(c, ""))
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggerMiddleware(), MetricsMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, logger.WithContext(c.Request.Context()))
		v, _ := c.Get(RequestIDKey)
		c.String(http.StatusOK, v.(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
