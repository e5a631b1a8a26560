package jobs

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"sprint-review.backend/internal/domain/entities"
	"sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/internal/metrics"
	"sprint-review.backend/pkg/logger"
)

type reminderSprintSource interface {
	List(ctx context.Context) ([]*entities.Sprint, error)
}

type reminderTeamSource interface {
	List(ctx context.Context, prefix string) ([]*entities.Team, error)
}

type completionAggregator interface {
	Aggregate(ctx context.Context, memberIDs []string, sprintID string) (*entities.ReviewCompletion, error)
}

// ReviewReminderJob periodically tells reviewers which teammates they
// still owe a review for every sprint whose review window is open.
type ReviewReminderJob struct {
	sprints    reminderSprintSource
	teams      reminderTeamSource
	aggregator completionAggregator
	notifier   repositories.ReminderNotifier
	interval   time.Duration
	now        func() time.Time
	stop       chan struct{}
}

func NewReviewReminderJob(
	sprints reminderSprintSource,
	teams reminderTeamSource,
	aggregator completionAggregator,
	notifier repositories.ReminderNotifier,
	interval time.Duration,
) *ReviewReminderJob {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ReviewReminderJob{
		sprints:    sprints,
		teams:      teams,
		aggregator: aggregator,
		notifier:   notifier,
		interval:   interval,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
}

func (j *ReviewReminderJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting review reminder job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Review reminder job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Review reminder job stopped")
			return
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				logger.Error(ctx, "Review reminder run failed", zap.Error(err))
			}
		}
	}
}

func (j *ReviewReminderJob) Stop() {
	close(j.stop)
}

// RunOnce sends one round of reminders and returns how many were sent.
// A team whose aggregation fails is skipped.
func (j *ReviewReminderJob) RunOnce(ctx context.Context) (int, error) {
	sprints, err := j.sprints.List(ctx)
	if err != nil {
		return 0, err
	}

	now := j.now()
	var open []*entities.Sprint
	for _, s := range sprints {
		if s.IsReviewOpen(now) {
			open = append(open, s)
		}
	}
	if len(open) == 0 {
		return 0, nil
	}

	teams, err := j.teams.List(ctx, "")
	if err != nil {
		return 0, err
	}

	var reminders []repositories.ReviewReminder
	for _, sprint := range open {
		for _, team := range teams {
			completion, err := j.aggregator.Aggregate(ctx, team.MemberIDs(), sprint.ID)
			if err != nil {
				logger.Warn(ctx, "Skipping team in reminder run",
					logger.TeamID(string(team.ID)),
					logger.SprintID(sprint.ID),
					zap.Error(err),
				)
				continue
			}
			reviewers := make([]string, 0, len(completion.PendingByReviewer))
			for id := range completion.PendingByReviewer {
				reviewers = append(reviewers, id)
			}
			sort.Strings(reviewers)
			for _, id := range reviewers {
				reminders = append(reminders, repositories.ReviewReminder{
					ReviewerID: id,
					SprintID:   sprint.ID,
					TeamID:     string(team.ID),
					Pending:    completion.PendingByReviewer[id],
				})
			}
		}
	}
	if len(reminders) == 0 {
		return 0, nil
	}

	if err := j.notifier.Notify(ctx, reminders); err != nil {
		return 0, err
	}
	metrics.ReviewRemindersTotal.Add(float64(len(reminders)))
	logger.Info(ctx, "Review reminders sent", zap.Int("count", len(reminders)))
	return len(reminders), nil
}
