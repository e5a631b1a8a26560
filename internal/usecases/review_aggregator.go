package usecases

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"sprint-review.backend/internal/domain/entities"
	"sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/internal/metrics"
	"sprint-review.backend/pkg/utils"
)

// ReviewAggregator computes a team's review completion for a sprint.
type ReviewAggregator struct {
	reviews repositories.ReviewRepository
	maxIn   int
	timeout time.Duration
}

func NewReviewAggregator(reviews repositories.ReviewRepository, limits repositories.StoreLimits, timeout time.Duration) *ReviewAggregator {
	return &ReviewAggregator{reviews: reviews, maxIn: limits.MaxInFilter, timeout: timeout}
}

// Aggregate fetches the sprint's reviews written by memberIDs, one
// query per MaxInFilter-sized chunk, and folds them with ComputeCompletion.
func (a *ReviewAggregator) Aggregate(ctx context.Context, memberIDs []string, sprintID string) (*entities.ReviewCompletion, error) {
	start := time.Now()
	defer func() { metrics.AggregationDuration.Observe(time.Since(start).Seconds()) }()

	members := utils.Dedupe(memberIDs)
	if len(members) < 2 {
		return ComputeCompletion(members, nil), nil
	}

	chunks := utils.Chunk(members, a.maxIn)
	results := make([][]*entities.Review, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			callCtx, cancel := withStoreTimeout(gctx, a.timeout)
			defer cancel()
			reviews, err := a.reviews.ListBySprintAndReviewers(callCtx, sprintID, chunk)
			if err != nil {
				return storeError(err)
			}
			results[i] = reviews
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*entities.Review
	for _, r := range results {
		all = append(all, r...)
	}
	return ComputeCompletion(members, all), nil
}

// ComputeCompletion folds reviews into a ReviewCompletion for the given
// members. Only reviews between two distinct members count. Duplicate
// documents for one (reviewer, reviewee) pair count once, the most
// recently updated one supplying the score. Averages cover parseable
// scores only; a member with none is absent from PerMemberAverage.
func ComputeCompletion(memberIDs []string, reviews []*entities.Review) *entities.ReviewCompletion {
	members := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = struct{}{}
	}
	n := len(members)

	out := &entities.ReviewCompletion{
		PerMemberAverage:  map[string]float64{},
		PendingByReviewer: map[string]int{},
	}
	if n >= 2 {
		out.Expected = n * (n - 1)
	}

	type pair struct{ reviewer, reviewee string }
	latest := make(map[pair]*entities.Review)
	order := make([]pair, 0, len(reviews))
	for _, r := range reviews {
		if r == nil || r.ReviewerID == r.ReviewedTeammateID {
			continue
		}
		if _, ok := members[r.ReviewerID]; !ok {
			continue
		}
		if _, ok := members[r.ReviewedTeammateID]; !ok {
			continue
		}
		k := pair{r.ReviewerID, r.ReviewedTeammateID}
		prev, seen := latest[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || !r.UpdatedAt.Before(prev.UpdatedAt) {
			latest[k] = r
		}
	}
	out.Actual = len(order)
	out.PendingReviews = max(0, out.Expected-out.Actual)

	sums := make(map[string]float64)
	counts := make(map[string]int)
	written := make(map[string]int)
	for _, k := range order {
		written[k.reviewer]++
		if score, ok := latest[k].Score(); ok {
			sums[k.reviewee] += score
			counts[k.reviewee]++
		}
	}
	for id, c := range counts {
		out.PerMemberAverage[id] = sums[id] / float64(c)
	}
	if n >= 2 {
		for id := range members {
			if owed := (n - 1) - written[id]; owed > 0 {
				out.PendingByReviewer[id] = owed
			}
		}
	}
	return out
}
