package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"sprint-review.backend/internal/domain/entities"
	domainRepos "sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/internal/infrastructure/models"
)

type TeamRepository struct {
	db     *gorm.DB
	limits domainRepos.StoreLimits
}

func NewTeamRepository(db *gorm.DB, limits domainRepos.StoreLimits) *TeamRepository {
	return &TeamRepository{db: db, limits: limits}
}

func (r *TeamRepository) GetByID(ctx context.Context, id entities.TeamID) (*entities.Team, error) {
	var m models.Team
	if err := GetDB(ctx, r.db).Where("id = ?", string(id)).First(&m).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return r.toEntity(&m)
}

func (r *TeamRepository) ListByIDs(ctx context.Context, ids []entities.TeamID) ([]*entities.Team, error) {
	if len(ids) == 0 {
		return []*entities.Team{}, nil
	}
	if err := checkInFilter(len(ids), r.limits.MaxInFilter); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, string(id))
	}

	var ms []models.Team
	if err := GetDB(ctx, r.db).Where("id IN ?", keys).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return r.toEntities(ms)
}

func (r *TeamRepository) List(ctx context.Context, prefix string) ([]*entities.Team, error) {
	var ms []models.Team
	query := GetDB(ctx, r.db).Model(&models.Team{})
	if strings.TrimSpace(prefix) != "" {
		query = query.Where(`LOWER(id) LIKE ? ESCAPE '\'`, containsPattern(prefix, true))
	}
	if err := query.Order("id ASC").Find(&ms).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return r.toEntities(ms)
}

func (r *TeamRepository) Upsert(ctx context.Context, team *entities.Team) error {
	m, err := r.toModel(team)
	if err != nil {
		return err
	}
	err = GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "students", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return mapStoreError(ctx, err)
	}
	team.UpdatedAt = m.UpdatedAt
	if team.CreatedAt.IsZero() {
		team.CreatedAt = m.CreatedAt
	}
	return nil
}

func (r *TeamRepository) toEntities(ms []models.Team) ([]*entities.Team, error) {
	items := make([]*entities.Team, 0, len(ms))
	for i := range ms {
		team, err := r.toEntity(&ms[i])
		if err != nil {
			return nil, err
		}
		items = append(items, team)
	}
	return items, nil
}

func (r *TeamRepository) toEntity(m *models.Team) (*entities.Team, error) {
	var members []models.TeamMember
	if len(m.Students) > 0 {
		if err := json.Unmarshal(m.Students, &members); err != nil {
			return nil, fmt.Errorf("decode members of team %s: %w", m.ID, err)
		}
	}

	team := &entities.Team{
		ID:        entities.TeamID(m.ID),
		Name:      m.Name,
		Students:  make([]entities.TeamMember, 0, len(members)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, mm := range members {
		team.Students = append(team.Students, entities.TeamMember{
			ComputingID:       mm.ComputingID,
			Name:              mm.Name,
			GithubID:          null.StringFromPtr(mm.GithubID),
			DiscordID:         null.StringFromPtr(mm.DiscordID),
			PreferredPronouns: null.StringFromPtr(mm.PreferredPronouns),
			Team:              entities.TeamID(mm.Team),
		})
	}
	return team, nil
}

func (r *TeamRepository) toModel(e *entities.Team) (*models.Team, error) {
	members := make([]models.TeamMember, 0, len(e.Students))
	for _, s := range e.Students {
		members = append(members, models.TeamMember{
			ComputingID:       s.ComputingID,
			Name:              s.Name,
			GithubID:          s.GithubID.Ptr(),
			DiscordID:         s.DiscordID.Ptr(),
			PreferredPronouns: s.PreferredPronouns.Ptr(),
			Team:              string(s.Team),
		})
	}
	raw, err := json.Marshal(members)
	if err != nil {
		return nil, fmt.Errorf("encode members of team %s: %w", e.ID, err)
	}
	return &models.Team{
		ID:        string(e.ID),
		Name:      e.Name,
		Students:  datatypes.JSON(raw),
		CreatedAt: e.CreatedAt,
	}, nil
}
