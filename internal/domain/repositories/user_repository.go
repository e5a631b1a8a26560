package repositories

import (
	"context"

	"sprint-review.backend/internal/domain/entities"
)

// UserRepository defines account link operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByUID(ctx context.Context, uid string) (*entities.User, error)
	ListByStudentID(ctx context.Context, studentID string) ([]*entities.User, error)
	Delete(ctx context.Context, uid string) error
}
