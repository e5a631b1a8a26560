package usecases

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/metrics"
	"sprint-review.backend/pkg/logger"
	"sprint-review.backend/pkg/utils"
)

// RemoveStudent deletes a student together with its team entry, every
// review it wrote or received and its account links. Credentials are
// revoked only after the record store write is final; a failed
// revocation is reported as a warning and does not undo the removal.
func (u *MembershipUsecase) RemoveStudent(ctx context.Context, computingID string) (*entities.RemovalResult, error) {
	student, unlock, err := lockStudentTeam(ctx, u.students, u.locker, u.timeout, computingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		team       *entities.Team
		byReviewer []*entities.Review
		byReviewee []*entities.Review
		links      []*entities.User
	)

	g, gctx := errgroup.WithContext(ctx)
	if student.Team != "" {
		g.Go(func() error {
			t, err := getTeam(gctx, u.teams, u.timeout, student.Team)
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil
			}
			team = t
			return err
		})
	}
	g.Go(func() error {
		callCtx, cancel := withStoreTimeout(gctx, u.timeout)
		defer cancel()
		var err error
		byReviewer, err = u.reviews.ListByReviewer(callCtx, computingID)
		return storeError(err)
	})
	g.Go(func() error {
		callCtx, cancel := withStoreTimeout(gctx, u.timeout)
		defer cancel()
		var err error
		byReviewee, err = u.reviews.ListByReviewee(callCtx, computingID)
		return storeError(err)
	})
	g.Go(func() error {
		callCtx, cancel := withStoreTimeout(gctx, u.timeout)
		defer cancel()
		var err error
		links, err = u.users.ListByStudentID(callCtx, computingID)
		return storeError(err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reviewIDs := make([]string, 0, len(byReviewer)+len(byReviewee))
	for _, r := range byReviewer {
		reviewIDs = append(reviewIDs, r.ID)
	}
	for _, r := range byReviewee {
		reviewIDs = append(reviewIDs, r.ID)
	}
	reviewIDs = utils.Dedupe(reviewIDs)

	final := u.writer.NewBatch()
	final.DeleteStudent(computingID)
	if team != nil && team.RemoveMember(computingID) {
		final.PutTeam(team)
	}
	for _, link := range links {
		final.DeleteUser(link.UID)
	}

	// Reviews that do not fit beside the student delete go first, in
	// their own batches. The student and its team entry always leave together.
	var overflow []string
	for _, id := range reviewIDs {
		if u.writer.Fits(final, 1) {
			final.DeleteReview(id)
		} else {
			overflow = append(overflow, id)
		}
	}
	for _, chunk := range utils.Chunk(overflow, u.writer.MaxOps()) {
		b := u.writer.NewBatch()
		for _, id := range chunk {
			b.DeleteReview(id)
		}
		if err := u.writer.Commit(ctx, b); err != nil {
			return nil, err
		}
	}
	if err := u.writer.Commit(ctx, final); err != nil {
		return nil, err
	}
	metrics.StudentsRemovedTotal.Inc()

	result := &entities.RemovalResult{
		ComputingID:     student.ComputingID,
		Name:            student.Name,
		Team:            student.Team,
		ReviewsDeleted:  len(reviewIDs),
		AccountsDeleted: len(links),
		Warnings:        u.revokeCredentials(ctx, links),
	}

	logger.Info(ctx, "Student removed",
		logger.ComputingID(computingID),
		logger.TeamID(string(student.Team)),
		zap.Int("reviews_deleted", result.ReviewsDeleted),
		zap.Int("accounts_deleted", result.AccountsDeleted),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (u *MembershipUsecase) revokeCredentials(ctx context.Context, links []*entities.User) []string {
	if u.revoker == nil {
		return nil
	}
	// The removal is already committed; a departing caller must not stop revocation.
	revokeCtx := context.WithoutCancel(ctx)

	var warnings []string
	for _, link := range links {
		callCtx, cancel := withStoreTimeout(revokeCtx, u.timeout)
		err := u.revoker.Revoke(callCtx, link.UID)
		cancel()
		if err != nil {
			metrics.CredentialRevocationFailuresTotal.Inc()
			logger.Warn(ctx, "Credential revocation failed", zap.String("uid", link.UID), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("credential revocation failed for account %s: %v", link.UID, err))
		}
	}
	return warnings
}
