package repositories

import (
	"context"

	"sprint-review.backend/internal/domain/entities"
)

// ReviewRepository defines review data operations
type ReviewRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Review, error)
	// ListBySprintAndReviewers returns sprint reviews authored by any of reviewerIDs;
	// at most MaxInFilter ids per call.
	ListBySprintAndReviewers(ctx context.Context, sprintID string, reviewerIDs []string) ([]*entities.Review, error)
	ListByReviewer(ctx context.Context, reviewerID string) ([]*entities.Review, error)
	ListByReviewee(ctx context.Context, revieweeID string) ([]*entities.Review, error)
	// Upsert inserts or replaces the review with the same (reviewer, reviewee, sprint) key.
	Upsert(ctx context.Context, review *entities.Review) error
	Delete(ctx context.Context, id string) error
}
