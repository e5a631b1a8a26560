package repositories

import (
	"context"

	"sprint-review.backend/internal/domain/entities"
)

type TeamRepository interface {
	GetByID(ctx context.Context, id entities.TeamID) (*entities.Team, error)
	// ListByIDs returns the teams found among ids; at most MaxInFilter ids per call.
	ListByIDs(ctx context.Context, ids []entities.TeamID) ([]*entities.Team, error)
	// List returns teams ordered by id, optionally restricted to ids starting with prefix.
	List(ctx context.Context, prefix string) ([]*entities.Team, error)
	Upsert(ctx context.Context, team *entities.Team) error
}
