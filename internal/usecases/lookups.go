package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/pkg/utils"
)

func getStudent(ctx context.Context, repo repositories.StudentRepository, timeout time.Duration, id string) (*entities.Student, error) {
	callCtx, cancel := withStoreTimeout(ctx, timeout)
	defer cancel()
	s, err := repo.GetByID(callCtx, id)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.NotFound("Student not found")
	}
	if err != nil {
		return nil, storeError(err)
	}
	return s, nil
}

func getTeam(ctx context.Context, repo repositories.TeamRepository, timeout time.Duration, id entities.TeamID) (*entities.Team, error) {
	callCtx, cancel := withStoreTimeout(ctx, timeout)
	defer cancel()
	t, err := repo.GetByID(callCtx, id)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.NotFound("Team not found")
	}
	if err != nil {
		return nil, storeError(err)
	}
	return t, nil
}

// listStudents reads ids in MaxInFilter-sized chunks.
func listStudents(ctx context.Context, repo repositories.StudentRepository, timeout time.Duration, maxIn int, ids []string) (map[string]*entities.Student, error) {
	found := make(map[string]*entities.Student, len(ids))
	for _, chunk := range utils.Chunk(ids, maxIn) {
		callCtx, cancel := withStoreTimeout(ctx, timeout)
		students, err := repo.ListByIDs(callCtx, chunk)
		cancel()
		if err != nil {
			return nil, storeError(err)
		}
		for _, s := range students {
			found[s.ComputingID] = s
		}
	}
	return found, nil
}

func listTeams(ctx context.Context, repo repositories.TeamRepository, timeout time.Duration, maxIn int, ids []entities.TeamID) (map[entities.TeamID]*entities.Team, error) {
	found := make(map[entities.TeamID]*entities.Team, len(ids))
	for _, chunk := range utils.Chunk(ids, maxIn) {
		callCtx, cancel := withStoreTimeout(ctx, timeout)
		teams, err := repo.ListByIDs(callCtx, chunk)
		cancel()
		if err != nil {
			return nil, storeError(err)
		}
		for _, t := range teams {
			found[t.ID] = t
		}
	}
	return found, nil
}

// lockStudentTeam locks the team the student currently belongs to and
// returns the student as read under that lock. A student that changes
// team between the read and the lock is retried.
func lockStudentTeam(
	ctx context.Context,
	students repositories.StudentRepository,
	locker repositories.TeamLocker,
	timeout time.Duration,
	computingID string,
) (*entities.Student, func(), error) {
	student, err := getStudent(ctx, students, timeout, computingID)
	if err != nil {
		return nil, nil, err
	}
	for attempt := 0; attempt < 3; attempt++ {
		unlock, err := lockTeams(ctx, locker, timeout, string(student.Team))
		if err != nil {
			return nil, nil, err
		}
		fresh, err := getStudent(ctx, students, timeout, computingID)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if fresh.Team == student.Team {
			return fresh, unlock, nil
		}
		unlock()
		student = fresh
	}
	return nil, nil, domainerrors.StoreFailure(domainerrors.ErrTeamBusy)
}

func optionalString(v string) null.String {
	v = strings.TrimSpace(v)
	return null.NewString(v, v != "")
}
