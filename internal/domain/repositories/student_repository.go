package repositories

import (
	"context"

	"sprint-review.backend/internal/domain/entities"
)

// StudentRepository defines student data operations
type StudentRepository interface {
	GetByID(ctx context.Context, computingID string) (*entities.Student, error)
	// ListByIDs returns the students found among ids; at most MaxInFilter ids per call.
	ListByIDs(ctx context.Context, computingIDs []string) ([]*entities.Student, error)
	ListByTeam(ctx context.Context, teamID entities.TeamID) ([]*entities.Student, error)
	List(ctx context.Context, search string) ([]*entities.Student, error)
	Upsert(ctx context.Context, student *entities.Student) error
	Delete(ctx context.Context, computingID string) error
}
