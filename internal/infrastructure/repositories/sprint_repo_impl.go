package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"sprint-review.backend/internal/domain/entities"
	"sprint-review.backend/internal/infrastructure/models"
)

type SprintRepository struct {
	db *gorm.DB
}

func NewSprintRepository(db *gorm.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

func (r *SprintRepository) GetByID(ctx context.Context, id string) (*entities.Sprint, error) {
	var m models.Sprint
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return toSprintEntity(&m), nil
}

// List returns sprints ordered by id.
func (r *SprintRepository) List(ctx context.Context) ([]*entities.Sprint, error) {
	var ms []models.Sprint
	if err := GetDB(ctx, r.db).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	items := make([]*entities.Sprint, 0, len(ms))
	for i := range ms {
		items = append(items, toSprintEntity(&ms[i]))
	}
	return items, nil
}

func (r *SprintRepository) Upsert(ctx context.Context, sprint *entities.Sprint) error {
	m := &models.Sprint{
		ID:            sprint.ID,
		Name:          sprint.Name,
		SprintDueDate: sprint.SprintDueDate,
		ReviewDueDate: sprint.ReviewDueDate,
	}
	err := GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "sprint_due_date", "review_due_date", "updated_at"}),
		}).
		Create(m).Error
	return mapStoreError(ctx, err)
}

func toSprintEntity(m *models.Sprint) *entities.Sprint {
	return &entities.Sprint{
		ID:            m.ID,
		Name:          m.Name,
		SprintDueDate: m.SprintDueDate,
		ReviewDueDate: m.ReviewDueDate,
	}
}
