package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "sprint-review.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Errors that are not AppErrors become 500s.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = domainerrors.InternalError(err)
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Retryable() {
		body["retryable"] = true
	}
	c.JSON(appErr.Status, body)
}
