package usecases_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"sprint-review.backend/internal/domain/entities"
	"sprint-review.backend/internal/domain/repositories"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	args := m.Called(ctx, f)
	if err := args.Error(0); err != nil {
		return err
	}
	return f(ctx)
}

// Mock StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) GetByID(ctx context.Context, computingID string) (*entities.Student, error) {
	args := m.Called(ctx, computingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Student), args.Error(1)
}

func (m *MockStudentRepository) ListByIDs(ctx context.Context, computingIDs []string) ([]*entities.Student, error) {
	args := m.Called(ctx, computingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Student), args.Error(1)
}

func (m *MockStudentRepository) ListByTeam(ctx context.Context, teamID entities.TeamID) ([]*entities.Student, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Student), args.Error(1)
}

func (m *MockStudentRepository) List(ctx context.Context, search string) ([]*entities.Student, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Student), args.Error(1)
}

func (m *MockStudentRepository) Upsert(ctx context.Context, student *entities.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Delete(ctx context.Context, computingID string) error {
	args := m.Called(ctx, computingID)
	return args.Error(0)
}

// Mock TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id entities.TeamID) (*entities.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByIDs(ctx context.Context, ids []entities.TeamID) ([]*entities.Team, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context, prefix string) ([]*entities.Team, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) Upsert(ctx context.Context, team *entities.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

// Mock ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) ListBySprintAndReviewers(ctx context.Context, sprintID string, reviewerIDs []string) ([]*entities.Review, error) {
	args := m.Called(ctx, sprintID, reviewerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByReviewer(ctx context.Context, reviewerID string) ([]*entities.Review, error) {
	args := m.Called(ctx, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByReviewee(ctx context.Context, revieweeID string) ([]*entities.Review, error) {
	args := m.Called(ctx, revieweeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) Upsert(ctx context.Context, review *entities.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUID(ctx context.Context, uid string) (*entities.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) ListByStudentID(ctx context.Context, studentID string) ([]*entities.User, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

// Mock SprintRepository
type MockSprintRepository struct {
	mock.Mock
}

func (m *MockSprintRepository) GetByID(ctx context.Context, id string) (*entities.Sprint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Sprint), args.Error(1)
}

func (m *MockSprintRepository) List(ctx context.Context) ([]*entities.Sprint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Sprint), args.Error(1)
}

func (m *MockSprintRepository) Upsert(ctx context.Context, sprint *entities.Sprint) error {
	args := m.Called(ctx, sprint)
	return args.Error(0)
}

// Mock TeamLocker
type MockTeamLocker struct {
	mock.Mock
}

func (m *MockTeamLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	args := m.Called(ctx, keys)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() {}, nil
}

// Mock CredentialRevoker
type MockCredentialRevoker struct {
	mock.Mock
}

func (m *MockCredentialRevoker) Revoke(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

var (
	_ repositories.UnitOfWork        = (*MockUnitOfWork)(nil)
	_ repositories.StudentRepository = (*MockStudentRepository)(nil)
	_ repositories.TeamRepository    = (*MockTeamRepository)(nil)
	_ repositories.ReviewRepository  = (*MockReviewRepository)(nil)
	_ repositories.UserRepository    = (*MockUserRepository)(nil)
	_ repositories.SprintRepository  = (*MockSprintRepository)(nil)
	_ repositories.TeamLocker        = (*MockTeamLocker)(nil)
	_ repositories.CredentialRevoker = (*MockCredentialRevoker)(nil)
)
