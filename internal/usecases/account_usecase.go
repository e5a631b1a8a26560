package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/pkg/logger"
)

// AccountUsecase links identity accounts to students
type AccountUsecase struct {
	students repositories.StudentRepository
	users    repositories.UserRepository
	writer   *BatchWriter
	locker   repositories.TeamLocker
	timeout  time.Duration
	now      func() time.Time
}

func NewAccountUsecase(
	students repositories.StudentRepository,
	users repositories.UserRepository,
	writer *BatchWriter,
	locker repositories.TeamLocker,
	timeout time.Duration,
) *AccountUsecase {
	return &AccountUsecase{
		students: students,
		users:    users,
		writer:   writer,
		locker:   locker,
		timeout:  timeout,
		now:      time.Now,
	}
}

// SetClock overrides the time source used for joinedAt.
func (u *AccountUsecase) SetClock(now func() time.Time) { u.now = now }

// LinkAccount creates the User for uid and marks the student active in
// one batch. A uid can be linked once.
func (u *AccountUsecase) LinkAccount(ctx context.Context, computingID string, input *entities.LinkAccountInput) (*entities.User, error) {
	uid := strings.TrimSpace(input.UID)
	if uid == "" {
		return nil, domainerrors.Validation("uid is required")
	}

	callCtx, cancel := withStoreTimeout(ctx, u.timeout)
	_, err := u.users.GetByUID(callCtx, uid)
	cancel()
	if err == nil {
		return nil, domainerrors.Conflict("Account is already linked")
	}
	if !isNotFound(err) {
		return nil, storeError(err)
	}

	student, unlock, err := lockStudentTeam(ctx, u.students, u.locker, u.timeout, computingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := u.now().UTC()
	student.Active = true
	student.JoinedAt = null.TimeFrom(now)

	user := &entities.User{
		UID:       uid,
		StudentID: student.ComputingID,
		Email:     strings.TrimSpace(input.Email),
		Role:      entities.UserRoleStudent,
		CreatedAt: now,
	}

	batch := u.writer.NewBatch()
	batch.PutStudent(student)
	batch.CreateUser(user)
	if err := u.writer.Commit(ctx, batch); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Account linked", logger.ComputingID(student.ComputingID))
	return user, nil
}
