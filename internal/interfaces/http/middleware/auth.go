package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/interfaces/http/response"
	"sprint-review.backend/pkg/jwt"
	"sprint-review.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// UIDKey is the context key for the account uid
	UIDKey = "uid"
	// StudentIDKey is the context key for the linked computing id
	StudentIDKey = "studentId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
)

// RevocationChecker reports whether an account's credentials were revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, uid string) (bool, error)
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Error(c, domainerrors.Unauthorized(message))
	c.Abort()
}

// AuthMiddleware creates a new authentication middleware. revocations may be nil.
func AuthMiddleware(jwtService *jwt.JWTService, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Warn(ctx, "Authorization header is missing", zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization format. Use: Bearer <token>")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			logger.Warn(ctx, "Token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				abortUnauthorized(c, "Token has expired")
				return
			}
			abortUnauthorized(c, "Invalid token")
			return
		}

		if revocations != nil {
			revoked, err := revocations.IsRevoked(ctx, claims.UID)
			if err != nil {
				logger.Error(ctx, "Revocation check failed", zap.Error(err))
				response.Error(c, domainerrors.StoreFailure(err))
				c.Abort()
				return
			}
			if revoked {
				abortUnauthorized(c, "Credentials have been revoked")
				return
			}
		}

		c.Set(UIDKey, claims.UID)
		c.Set(StudentIDKey, claims.StudentID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)

		c.Next()
	}
}

// GetUID gets the account uid from context
func GetUID(c *gin.Context) (string, bool) {
	return getString(c, UIDKey)
}

// GetStudentID gets the caller's computing id; empty for staff accounts.
func GetStudentID(c *gin.Context) (string, bool) {
	return getString(c, StudentIDKey)
}

// GetUserEmail gets the user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	return getString(c, UserEmailKey)
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (string, bool) {
	return getString(c, UserRoleKey)
}

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// RequireRole creates a middleware that requires a specific role
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			abortUnauthorized(c, "User role not found")
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    domainerrors.CodeForbidden,
			"message": "Insufficient permissions",
		})
	}
}

// RequireProfessor creates a middleware that requires the professor role
func RequireProfessor() gin.HandlerFunc {
	return RequireRole(jwt.RoleProfessor)
}

// IsSelfOrProfessor reports whether the caller is a professor or the
// student identified by computingID.
func IsSelfOrProfessor(c *gin.Context, computingID string) bool {
	if role, _ := GetUserRole(c); role == jwt.RoleProfessor {
		return true
	}
	studentID, _ := GetStudentID(c)
	return studentID != "" && studentID == computingID
}
