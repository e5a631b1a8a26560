package locks

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var ErrLockNotAcquired = errors.New("lock not acquired")

// LocalKeyLock is an in-process keyed mutex for single-replica
// deployments. Keys are taken in sorted order so overlapping key sets
// cannot deadlock.
type LocalKeyLock struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func NewLocalKeyLock() *LocalKeyLock {
	return &LocalKeyLock{held: make(map[string]chan struct{})}
}

// Lock blocks until every key is held or ctx is done.
func (l *LocalKeyLock) Lock(ctx context.Context, keys ...string) (func(), error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	acquired := make([]string, 0, len(sorted))
	for _, key := range sorted {
		if err := l.acquire(ctx, key); err != nil {
			l.release(acquired)
			return nil, err
		}
		acquired = append(acquired, key)
	}

	var once sync.Once
	return func() { once.Do(func() { l.release(acquired) }) }, nil
}

func (l *LocalKeyLock) acquire(ctx context.Context, key string) error {
	for {
		l.mu.Lock()
		wait, busy := l.held[key]
		if !busy {
			l.held[key] = make(chan struct{})
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return errors.Join(ErrLockNotAcquired, ctx.Err())
		}
	}
}

func (l *LocalKeyLock) release(keys []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, key := range keys {
		if ch, ok := l.held[key]; ok {
			delete(l.held, key)
			close(ch)
		}
	}
}
