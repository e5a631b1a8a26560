package usecases

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/internal/metrics"
	"sprint-review.backend/pkg/logger"
)

type batchOp struct {
	key   string
	apply func(ctx context.Context) error
}

// WriteBatch collects document writes for one atomic commit. A second
// write to the same document replaces the first in place.
type WriteBatch struct {
	w     *BatchWriter
	ops   []batchOp
	index map[string]int
}

func (b *WriteBatch) add(key string, apply func(ctx context.Context) error) {
	if i, ok := b.index[key]; ok {
		b.ops[i].apply = apply
		return
	}
	b.index[key] = len(b.ops)
	b.ops = append(b.ops, batchOp{key: key, apply: apply})
}

// Len returns the number of distinct document writes.
func (b *WriteBatch) Len() int { return len(b.ops) }

// Has reports whether the batch already writes key.
func (b *WriteBatch) Has(key string) bool {
	_, ok := b.index[key]
	return ok
}

func studentKey(id string) string { return "students/" + id }
func teamKey(id entities.TeamID) string { return "teams/" + string(id) }
func reviewKey(id string) string { return "reviews/" + id }
func userKey(uid string) string { return "users/" + uid }

// PutStudent upserts a snapshot of s.
func (b *WriteBatch) PutStudent(s *entities.Student) {
	snapshot := *s
	b.add(studentKey(s.ComputingID), func(ctx context.Context) error {
		return b.w.students.Upsert(ctx, &snapshot)
	})
}

// PutTeam upserts a snapshot of t, including its membership list.
func (b *WriteBatch) PutTeam(t *entities.Team) {
	snapshot := t.Clone()
	b.add(teamKey(t.ID), func(ctx context.Context) error {
		return b.w.teams.Upsert(ctx, snapshot)
	})
}

func (b *WriteBatch) DeleteStudent(computingID string) {
	b.add(studentKey(computingID), func(ctx context.Context) error {
		return b.w.students.Delete(ctx, computingID)
	})
}

func (b *WriteBatch) DeleteReview(id string) {
	b.add(reviewKey(id), func(ctx context.Context) error {
		return b.w.reviews.Delete(ctx, id)
	})
}

func (b *WriteBatch) CreateUser(u *entities.User) {
	b.add(userKey(u.UID), func(ctx context.Context) error {
		return b.w.users.Create(ctx, u)
	})
}

func (b *WriteBatch) DeleteUser(uid string) {
	b.add(userKey(uid), func(ctx context.Context) error {
		return b.w.users.Delete(ctx, uid)
	})
}

// BatchWriter commits WriteBatches through the unit of work, enforcing
// the store's per-batch operation limit.
type BatchWriter struct {
	uow      repositories.UnitOfWork
	students repositories.StudentRepository
	teams    repositories.TeamRepository
	reviews  repositories.ReviewRepository
	users    repositories.UserRepository
	maxOps   int
	timeout  time.Duration
}

func NewBatchWriter(
	uow repositories.UnitOfWork,
	students repositories.StudentRepository,
	teams repositories.TeamRepository,
	reviews repositories.ReviewRepository,
	users repositories.UserRepository,
	limits repositories.StoreLimits,
	timeout time.Duration,
) *BatchWriter {
	return &BatchWriter{
		uow:      uow,
		students: students,
		teams:    teams,
		reviews:  reviews,
		users:    users,
		maxOps:   limits.MaxBatchOps,
		timeout:  timeout,
	}
}

// MaxOps returns the per-batch operation limit; zero means unbounded.
func (w *BatchWriter) MaxOps() int { return w.maxOps }

// NewBatch starts an empty batch bound to this writer.
func (w *BatchWriter) NewBatch() *WriteBatch {
	return &WriteBatch{w: w, index: make(map[string]int)}
}

// Fits reports whether n more operations fit in b.
func (w *BatchWriter) Fits(b *WriteBatch, n int) bool {
	return w.maxOps <= 0 || b.Len()+n <= w.maxOps
}

// Commit applies every write in b atomically. A caller that is already
// cancelled gets its context error and nothing is written; once the
// commit is issued it runs to completion regardless of the caller.
func (w *BatchWriter) Commit(ctx context.Context, b *WriteBatch) error {
	if b.Len() == 0 {
		return nil
	}
	if w.maxOps > 0 && b.Len() > w.maxOps {
		metrics.BatchCommitsTotal.WithLabelValues("rejected").Inc()
		return domainerrors.StoreFailure(fmt.Errorf("%w: %d ops, limit %d", domainerrors.ErrBatchTooLarge, b.Len(), w.maxOps))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	commitCtx, cancel := withStoreTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()

	start := time.Now()
	err := w.uow.Do(commitCtx, func(txCtx context.Context) error {
		for _, op := range b.ops {
			if err := op.apply(txCtx); err != nil {
				return fmt.Errorf("write %s: %w", op.key, err)
			}
		}
		return nil
	})
	if err != nil {
		metrics.BatchCommitsTotal.WithLabelValues("failed").Inc()
		logger.Error(ctx, "Write batch failed",
			zap.Int("ops", b.Len()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return domainerrors.StoreFailure(err)
	}

	metrics.BatchCommitsTotal.WithLabelValues("committed").Inc()
	metrics.BatchOps.Observe(float64(b.Len()))
	logger.Debug(ctx, "Write batch committed", zap.Int("ops", b.Len()), zap.Duration("elapsed", time.Since(start)))
	return nil
}
