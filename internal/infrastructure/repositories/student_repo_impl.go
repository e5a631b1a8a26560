package repositories

import (
	"context"
	"strings"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"sprint-review.backend/internal/domain/entities"
	domainRepos "sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/internal/infrastructure/models"
)

type StudentRepository struct {
	db     *gorm.DB
	limits domainRepos.StoreLimits
}

func NewStudentRepository(db *gorm.DB, limits domainRepos.StoreLimits) *StudentRepository {
	return &StudentRepository{db: db, limits: limits}
}

func (r *StudentRepository) GetByID(ctx context.Context, computingID string) (*entities.Student, error) {
	var m models.Student
	if err := GetDB(ctx, r.db).Where("computing_id = ?", computingID).First(&m).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return r.toEntity(&m), nil
}

func (r *StudentRepository) ListByIDs(ctx context.Context, computingIDs []string) ([]*entities.Student, error) {
	if len(computingIDs) == 0 {
		return []*entities.Student{}, nil
	}
	if err := checkInFilter(len(computingIDs), r.limits.MaxInFilter); err != nil {
		return nil, err
	}

	var ms []models.Student
	if err := GetDB(ctx, r.db).Where("computing_id IN ?", computingIDs).Find(&ms).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return r.toEntities(ms), nil
}

func (r *StudentRepository) ListByTeam(ctx context.Context, teamID entities.TeamID) ([]*entities.Student, error) {
	var ms []models.Student
	if err := GetDB(ctx, r.db).
		Where("team = ?", string(teamID)).
		Order("computing_id ASC").
		Find(&ms).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return r.toEntities(ms), nil
}

func (r *StudentRepository) List(ctx context.Context, search string) ([]*entities.Student, error) {
	var ms []models.Student
	query := GetDB(ctx, r.db).Model(&models.Student{})
	if strings.TrimSpace(search) != "" {
		term := containsPattern(search, false)
		query = query.Where(`LOWER(computing_id) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\'`, term, term)
	}
	if err := query.Order("computing_id ASC").Find(&ms).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return r.toEntities(ms), nil
}

func (r *StudentRepository) Upsert(ctx context.Context, student *entities.Student) error {
	m := r.toModel(student)
	err := GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "computing_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "team", "joined_at", "active", "github_id", "discord_id", "preferred_pronouns", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return mapStoreError(ctx, err)
	}
	student.UpdatedAt = m.UpdatedAt
	if student.CreatedAt.IsZero() {
		student.CreatedAt = m.CreatedAt
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, computingID string) error {
	if err := GetDB(ctx, r.db).Where("computing_id = ?", computingID).Delete(&models.Student{}).Error; err != nil {
		return mapStoreError(ctx, err)
	}
	return nil
}

func (r *StudentRepository) toEntities(ms []models.Student) []*entities.Student {
	items := make([]*entities.Student, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items
}

func (r *StudentRepository) toEntity(m *models.Student) *entities.Student {
	return &entities.Student{
		ComputingID:       m.ComputingID,
		Name:              m.Name,
		Team:              entities.TeamID(m.Team),
		JoinedAt:          null.TimeFromPtr(m.JoinedAt),
		Active:            m.Active,
		GithubID:          null.StringFromPtr(m.GithubID),
		DiscordID:         null.StringFromPtr(m.DiscordID),
		PreferredPronouns: null.StringFromPtr(m.PreferredPronouns),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (r *StudentRepository) toModel(e *entities.Student) *models.Student {
	return &models.Student{
		ComputingID:       e.ComputingID,
		Name:              e.Name,
		Team:              string(e.Team),
		JoinedAt:          e.JoinedAt.Ptr(),
		Active:            e.Active,
		GithubID:          e.GithubID.Ptr(),
		DiscordID:         e.DiscordID.Ptr(),
		PreferredPronouns: e.PreferredPronouns.Ptr(),
		CreatedAt:         e.CreatedAt,
	}
}
