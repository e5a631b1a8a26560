package usecases

import (
	"context"
	"time"

	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/domain/repositories"
)

// SprintUsecase handles sprint reads and per-student review progress
type SprintUsecase struct {
	sprints  repositories.SprintRepository
	students repositories.StudentRepository
	teams    repositories.TeamRepository
	reviews  repositories.ReviewRepository
	timeout  time.Duration
}

func NewSprintUsecase(
	sprints repositories.SprintRepository,
	students repositories.StudentRepository,
	teams repositories.TeamRepository,
	reviews repositories.ReviewRepository,
	timeout time.Duration,
) *SprintUsecase {
	return &SprintUsecase{
		sprints:  sprints,
		students: students,
		teams:    teams,
		reviews:  reviews,
		timeout:  timeout,
	}
}

func (u *SprintUsecase) ListSprints(ctx context.Context) ([]*entities.Sprint, error) {
	callCtx, cancel := withStoreTimeout(ctx, u.timeout)
	defer cancel()
	sprints, err := u.sprints.List(callCtx)
	if err != nil {
		return nil, storeError(err)
	}
	return sprints, nil
}

func (u *SprintUsecase) GetSprint(ctx context.Context, id string) (*entities.Sprint, error) {
	callCtx, cancel := withStoreTimeout(ctx, u.timeout)
	defer cancel()
	sprint, err := u.sprints.GetByID(callCtx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, domainerrors.NotFound("Sprint not found")
		}
		return nil, storeError(err)
	}
	return sprint, nil
}

// StudentSprintProgress reports, for every sprint, how many current
// teammates reviewerID has reviewed out of how many it owes.
func (u *SprintUsecase) StudentSprintProgress(ctx context.Context, reviewerID string) ([]entities.SprintProgress, error) {
	student, err := getStudent(ctx, u.students, u.timeout, reviewerID)
	if err != nil {
		return nil, err
	}
	if student.Team == "" {
		return nil, domainerrors.BadRequest("Student is not assigned to a team")
	}
	team, err := getTeam(ctx, u.teams, u.timeout, student.Team)
	if err != nil {
		return nil, err
	}

	teammates := make(map[string]struct{}, len(team.Students))
	for _, id := range team.MemberIDs() {
		if id != reviewerID {
			teammates[id] = struct{}{}
		}
	}

	sprints, err := u.ListSprints(ctx)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := withStoreTimeout(ctx, u.timeout)
	written, err := u.reviews.ListByReviewer(callCtx, reviewerID)
	cancel()
	if err != nil {
		return nil, storeError(err)
	}

	reviewed := make(map[string]map[string]struct{})
	for _, r := range written {
		if _, ok := teammates[r.ReviewedTeammateID]; !ok {
			continue
		}
		if reviewed[r.SprintID] == nil {
			reviewed[r.SprintID] = make(map[string]struct{})
		}
		reviewed[r.SprintID][r.ReviewedTeammateID] = struct{}{}
	}

	progress := make([]entities.SprintProgress, 0, len(sprints))
	for _, s := range sprints {
		progress = append(progress, entities.SprintProgress{
			Sprint:           *s,
			CompletedReviews: len(reviewed[s.ID]),
			TotalReviews:     len(teammates),
		})
	}
	return progress, nil
}
