package usecases

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/pkg/logger"
	"sprint-review.backend/pkg/utils"
)

// RosterQueryUsecase serves read-only team and student views.
type RosterQueryUsecase struct {
	teams       repositories.TeamRepository
	students    repositories.StudentRepository
	aggregator  *ReviewAggregator
	concurrency int
	timeout     time.Duration
}

// NewRosterQueryUsecase creates a new roster query usecase
func NewRosterQueryUsecase(
	teams repositories.TeamRepository,
	students repositories.StudentRepository,
	aggregator *ReviewAggregator,
	concurrency int,
	timeout time.Duration,
) *RosterQueryUsecase {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &RosterQueryUsecase{
		teams:       teams,
		students:    students,
		aggregator:  aggregator,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// GetTeam gets a team by id
func (u *RosterQueryUsecase) GetTeam(ctx context.Context, id entities.TeamID) (*entities.Team, error) {
	return getTeam(ctx, u.teams, u.timeout, id)
}

// GetStudent gets a student by computing id
func (u *RosterQueryUsecase) GetStudent(ctx context.Context, computingID string) (*entities.Student, error) {
	return getStudent(ctx, u.students, u.timeout, computingID)
}

// SearchStudents matches search against computing id and name, case-insensitively.
func (u *RosterQueryUsecase) SearchStudents(ctx context.Context, search string, page, limit int) (*entities.StudentSearchResult, error) {
	callCtx, cancel := withStoreTimeout(ctx, u.timeout)
	defer cancel()

	students, err := u.students.List(callCtx, strings.TrimSpace(search))
	if err != nil {
		return nil, storeError(err)
	}

	items, meta := utils.Paginate(students, utils.GetPaginationParams(page, limit))
	return &entities.StudentSearchResult{
		Students:    items,
		Total:       len(students),
		HasNextPage: meta.HasNextPage,
	}, nil
}

// SearchTeamsBySprint ranks teams whose id starts with prefix by their
// lowest per-member average for the sprint and returns one page.
// Pages are 1-based.
func (u *RosterQueryUsecase) SearchTeamsBySprint(ctx context.Context, sprintID, prefix string, page, pageSize int) (*entities.TeamPage, error) {
	sprintID = strings.TrimSpace(sprintID)
	if sprintID == "" {
		return nil, domainerrors.Validation("sprintId is required")
	}

	callCtx, cancel := withStoreTimeout(ctx, u.timeout)
	teams, err := u.teams.List(callCtx, strings.TrimSpace(prefix))
	cancel()
	if err != nil {
		return nil, storeError(err)
	}

	summaries := make([]entities.TeamSummary, len(teams))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, team := range teams {
		g.Go(func() error {
			members := team.MemberIDs()
			completion, err := u.aggregator.Aggregate(gctx, members, sprintID)
			if err != nil {
				return err
			}
			risk := ScoreTeamRisk(members, completion.PerMemberAverage)
			summaries[i] = entities.TeamSummary{
				Team:           *team,
				PendingReviews: completion.PendingReviews,
				MinAvgScore:    risk.MinAvgScore,
				MinID:          risk.MinID,
				Severity:       SeverityFor(risk.MinAvgScore),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Team aggregation failed", logger.SprintID(sprintID), zap.Error(err))
		return nil, err
	}

	SortByRisk(summaries)
	items, meta := utils.Paginate(summaries, utils.GetPaginationParams(page, pageSize))
	return &entities.TeamPage{
		Teams:       items,
		Total:       len(summaries),
		HasNextPage: meta.HasNextPage,
	}, nil
}
