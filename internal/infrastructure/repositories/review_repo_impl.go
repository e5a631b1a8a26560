package repositories

import (
	"context"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"sprint-review.backend/internal/domain/entities"
	domainRepos "sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/internal/infrastructure/models"
	"sprint-review.backend/pkg/utils"
)

type ReviewRepository struct {
	db     *gorm.DB
	limits domainRepos.StoreLimits
}

func NewReviewRepository(db *gorm.DB, limits domainRepos.StoreLimits) *ReviewRepository {
	return &ReviewRepository{db: db, limits: limits}
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	var m models.Review
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return r.toEntity(&m), nil
}

func (r *ReviewRepository) ListBySprintAndReviewers(ctx context.Context, sprintID string, reviewerIDs []string) ([]*entities.Review, error) {
	if len(reviewerIDs) == 0 {
		return []*entities.Review{}, nil
	}
	if err := checkInFilter(len(reviewerIDs), r.limits.MaxInFilter); err != nil {
		return nil, err
	}

	var ms []models.Review
	if err := GetDB(ctx, r.db).
		Where("sprint_id = ? AND reviewer_id IN ?", sprintID, reviewerIDs).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return r.toEntities(ms), nil
}

func (r *ReviewRepository) ListByReviewer(ctx context.Context, reviewerID string) ([]*entities.Review, error) {
	return r.listWhere(ctx, "reviewer_id = ?", reviewerID)
}

func (r *ReviewRepository) ListByReviewee(ctx context.Context, revieweeID string) ([]*entities.Review, error) {
	return r.listWhere(ctx, "reviewed_teammate_id = ?", revieweeID)
}

func (r *ReviewRepository) listWhere(ctx context.Context, cond string, arg string) ([]*entities.Review, error) {
	var ms []models.Review
	if err := GetDB(ctx, r.db).Where(cond, arg).Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return r.toEntities(ms), nil
}

// Upsert writes review keyed by (reviewer, reviewee, sprint). On return
// review carries the stored id and creation time of the surviving row.
func (r *ReviewRepository) Upsert(ctx context.Context, review *entities.Review) error {
	if review.ID == "" {
		review.ID = utils.NewDocumentID()
	}
	m := r.toModel(review)
	db := GetDB(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "reviewer_id"}, {Name: "reviewed_teammate_id"}, {Name: "sprint_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"review_completed", "overall_evaluation_score", "is_flagged",
			"improvement_feedback", "strength_feedback", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return mapStoreError(ctx, err)
	}

	var stored models.Review
	if err := db.Where("reviewer_id = ? AND reviewed_teammate_id = ? AND sprint_id = ?",
		review.ReviewerID, review.ReviewedTeammateID, review.SprintID).First(&stored).Error; err != nil {
		return mapStoreError(ctx, err)
	}
	*review = *r.toEntity(&stored)
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	if err := GetDB(ctx, r.db).Where("id = ?", id).Delete(&models.Review{}).Error; err != nil {
		return mapStoreError(ctx, err)
	}
	return nil
}

func (r *ReviewRepository) toEntities(ms []models.Review) []*entities.Review {
	items := make([]*entities.Review, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items
}

func (r *ReviewRepository) toEntity(m *models.Review) *entities.Review {
	return &entities.Review{
		ID:                     m.ID,
		ReviewerID:             m.ReviewerID,
		ReviewedTeammateID:     m.ReviewedTeammateID,
		SprintID:               m.SprintID,
		ReviewCompleted:        m.ReviewCompleted,
		OverallEvaluationScore: null.StringFromPtr(m.OverallEvaluationScore),
		IsFlagged:              m.IsFlagged,
		ImprovementFeedback:    null.StringFromPtr(m.ImprovementFeedback),
		StrengthFeedback:       null.StringFromPtr(m.StrengthFeedback),
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

func (r *ReviewRepository) toModel(e *entities.Review) *models.Review {
	return &models.Review{
		ID:                     e.ID,
		ReviewerID:             e.ReviewerID,
		ReviewedTeammateID:     e.ReviewedTeammateID,
		SprintID:               e.SprintID,
		ReviewCompleted:        e.ReviewCompleted,
		OverallEvaluationScore: e.OverallEvaluationScore.Ptr(),
		IsFlagged:              e.IsFlagged,
		ImprovementFeedback:    e.ImprovementFeedback.Ptr(),
		StrengthFeedback:       e.StrengthFeedback.Ptr(),
		CreatedAt:              e.CreatedAt,
	}
}
