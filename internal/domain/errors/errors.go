package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrTokenExpired  = errors.New("token expired")

	// Record store failures. All of them are retryable: the requested
	// operation did not happen.
	ErrStoreFailure     = errors.New("record store failure")
	ErrStoreTimeout     = errors.New("record store timeout")
	ErrBatchTooLarge    = errors.New("write batch exceeds operation limit")
	ErrInFilterTooLarge = errors.New("membership filter exceeds key limit")
	ErrTeamBusy         = errors.New("team is being modified by another request")
)

// Stable machine-readable codes
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeValidation    = "VALIDATION_FAILED"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeStoreFailure  = "STORE_FAILURE"
	CodeInternalError = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may retry the same request unchanged.
func (e *AppError) Retryable() bool {
	return e.Code == CodeStoreFailure
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

// Validation reports malformed or incomplete input.
func Validation(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeValidation, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// StoreFailure wraps a record store error as a retryable 503.
func StoreFailure(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == CodeStoreFailure {
		return appErr
	}
	return NewAppError(http.StatusServiceUnavailable, CodeStoreFailure, "record store unavailable, retry the request", err)
}

// IsStoreFailure reports whether err means the record store rejected or timed out the call.
func IsStoreFailure(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeStoreFailure
	}
	return errors.Is(err, ErrStoreFailure) ||
		errors.Is(err, ErrStoreTimeout) ||
		errors.Is(err, ErrBatchTooLarge) ||
		errors.Is(err, ErrInFilterTooLarge) ||
		errors.Is(err, ErrTeamBusy)
}
