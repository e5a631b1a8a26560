package repositories

import (
	"context"

	"sprint-review.backend/internal/domain/entities"
)

type SprintRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Sprint, error)
	List(ctx context.Context) ([]*entities.Sprint, error)
	Upsert(ctx context.Context, sprint *entities.Sprint) error
}
