package jobs

import (
	"context"

	"go.uber.org/zap"
	"sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/pkg/logger"
)

// LogNotifier writes reminders to the structured log. It stands in for
// an email or chat integration.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, reminders []repositories.ReviewReminder) error {
	for _, r := range reminders {
		logger.Info(ctx, "Review reminder",
			logger.ComputingID(r.ReviewerID),
			logger.SprintID(r.SprintID),
			logger.TeamID(r.TeamID),
			zap.Int("pending", r.Pending),
		)
	}
	return nil
}
