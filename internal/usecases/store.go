package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/domain/repositories"
)

func teamLockKey(id string) string { return "team:" + id }

// withStoreTimeout bounds one store call; zero disables the bound.
func withStoreTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// storeError keeps NotFound as-is and turns everything else into a
// retryable StoreFailure.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	return domainerrors.StoreFailure(err)
}

// lockTeams acquires the per-team locks for ids, bounded by timeout.
func lockTeams(ctx context.Context, locker repositories.TeamLocker, timeout time.Duration, ids ...string) (func(), error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			keys = append(keys, teamLockKey(id))
		}
	}
	if locker == nil || len(keys) == 0 {
		return func() {}, nil
	}

	lockCtx, cancel := withStoreTimeout(ctx, timeout)
	defer cancel()
	unlock, err := locker.Lock(lockCtx, keys...)
	if err != nil {
		return nil, domainerrors.StoreFailure(fmt.Errorf("%w: %w", domainerrors.ErrTeamBusy, err))
	}
	return unlock, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domainerrors.ErrNotFound)
}
