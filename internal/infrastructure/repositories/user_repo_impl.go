package repositories

import (
	"context"

	"gorm.io/gorm"
	"sprint-review.backend/internal/domain/entities"
	"sprint-review.backend/internal/infrastructure/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		UID:       user.UID,
		StudentID: user.StudentID,
		Email:     user.Email,
		Role:      string(user.Role),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return mapStoreError(ctx, err)
	}
	user.CreatedAt = m.CreatedAt
	return nil
}

func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("uid = ?", uid).First(&m).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	return toUserEntity(&m), nil
}

func (r *UserRepository) ListByStudentID(ctx context.Context, studentID string) ([]*entities.User, error) {
	var ms []models.User
	if err := GetDB(ctx, r.db).Where("student_id = ?", studentID).Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, mapStoreError(ctx, err)
	}
	items := make([]*entities.User, 0, len(ms))
	for i := range ms {
		items = append(items, toUserEntity(&ms[i]))
	}
	return items, nil
}

func (r *UserRepository) Delete(ctx context.Context, uid string) error {
	if err := GetDB(ctx, r.db).Where("uid = ?", uid).Delete(&models.User{}).Error; err != nil {
		return mapStoreError(ctx, err)
	}
	return nil
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		UID:       m.UID,
		StudentID: m.StudentID,
		Email:     m.Email,
		Role:      entities.UserRole(m.Role),
		CreatedAt: m.CreatedAt,
	}
}
