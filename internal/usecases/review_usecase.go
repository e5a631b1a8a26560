package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/pkg/logger"
	"sprint-review.backend/pkg/utils"
)

// ReviewUsecase handles review submission
type ReviewUsecase struct {
	reviews  repositories.ReviewRepository
	students repositories.StudentRepository
	sprints  repositories.SprintRepository
	locker   repositories.TeamLocker
	timeout  time.Duration
	now      func() time.Time
}

func NewReviewUsecase(
	reviews repositories.ReviewRepository,
	students repositories.StudentRepository,
	sprints repositories.SprintRepository,
	locker repositories.TeamLocker,
	timeout time.Duration,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviews:  reviews,
		students: students,
		sprints:  sprints,
		locker:   locker,
		timeout:  timeout,
		now:      time.Now,
	}
}

// SetClock overrides the time source used for the review window check.
func (u *ReviewUsecase) SetClock(now func() time.Time) { u.now = now }

// SubmitReview records reviewer's evaluation of a teammate for a sprint.
// Resubmitting for the same (reviewer, reviewee, sprint) replaces the
// earlier review while the window is open.
func (u *ReviewUsecase) SubmitReview(ctx context.Context, input *entities.SubmitReviewInput) (*entities.Review, error) {
	if input.ReviewerID == input.ReviewedTeammateID {
		return nil, domainerrors.Validation("a student cannot review themselves")
	}
	rawScore := strings.TrimSpace(input.OverallEvaluationScore)
	score, ok := entities.ParseScore(null.StringFrom(rawScore))
	if !ok || score < entities.MinReviewScore || score > entities.MaxReviewScore {
		return nil, domainerrors.Validation(fmt.Sprintf("overallEvaluationScore must be a number from %d to %d", entities.MinReviewScore, entities.MaxReviewScore))
	}

	callCtx, cancel := withStoreTimeout(ctx, u.timeout)
	sprint, err := u.sprints.GetByID(callCtx, input.SprintID)
	cancel()
	if isNotFound(err) {
		return nil, domainerrors.NotFound("Sprint not found")
	}
	if err != nil {
		return nil, storeError(err)
	}
	if !sprint.IsReviewOpen(u.now()) {
		return nil, domainerrors.Validation(fmt.Sprintf("reviews for sprint %s are not open", sprint.ID))
	}

	// Removal holds the same team lock, so neither student can disappear
	// between the membership check and the write.
	_, unlock, err := lockStudentTeam(ctx, u.students, u.locker, u.timeout, input.ReviewerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	callCtx, cancel = withStoreTimeout(ctx, u.timeout)
	pair, err := u.students.ListByIDs(callCtx, []string{input.ReviewerID, input.ReviewedTeammateID})
	cancel()
	if err != nil {
		return nil, storeError(err)
	}
	if len(pair) != 2 {
		return nil, domainerrors.NotFound("Student not found")
	}
	if pair[0].Team == "" || pair[0].Team != pair[1].Team {
		return nil, domainerrors.Validation("reviewer and reviewee are not on the same team")
	}

	review := &entities.Review{
		ID:                     utils.NewDocumentID(),
		ReviewerID:             input.ReviewerID,
		ReviewedTeammateID:     input.ReviewedTeammateID,
		SprintID:               sprint.ID,
		ReviewCompleted:        true,
		OverallEvaluationScore: null.StringFrom(rawScore),
		IsFlagged:              input.IsFlagged,
		ImprovementFeedback:    optionalString(input.ImprovementFeedback),
		StrengthFeedback:       optionalString(input.StrengthFeedback),
	}

	callCtx, cancel = withStoreTimeout(ctx, u.timeout)
	defer cancel()
	if err := u.reviews.Upsert(callCtx, review); err != nil {
		return nil, storeError(err)
	}

	logger.Info(ctx, "Review submitted",
		logger.ComputingID(review.ReviewerID),
		logger.SprintID(review.SprintID),
	)
	return review, nil
}
