package redis

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"sprint-review.backend/pkg/logger"
)

// ErrLockNotAcquired is returned when the context ends before every key is held.
var ErrLockNotAcquired = errors.New("lock not acquired")

const lockKeyPrefix = "lock:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// KeyLock serializes writers across processes with SET NX PX leases.
// Keys are acquired in sorted order so overlapping multi-key callers cannot deadlock.
// Held leases are extended every ttl/3 until released, so a holder that
// outlives one ttl keeps its keys. A crashed holder loses them after ttl.
type KeyLock struct {
	ttl   time.Duration
	retry time.Duration
}

// NewKeyLock creates a lock whose leases expire after ttl if never released.
func NewKeyLock(ttl time.Duration) *KeyLock {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &KeyLock{ttl: ttl, retry: 25 * time.Millisecond}
}

// Lock blocks until every key is held or ctx is done.
func (l *KeyLock) Lock(ctx context.Context, keys ...string) (func(), error) {
	ordered := sortedUnique(keys)
	token := uuid.NewString()
	held := make([]string, 0, len(ordered))

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			_ = releaseScript.Run(releaseCtx, client, []string{held[i]}, token).Err()
		}
	}

	for _, key := range ordered {
		redisKey := lockKeyPrefix + key
		if err := l.acquire(ctx, redisKey, token); err != nil {
			release()
			return nil, err
		}
		held = append(held, redisKey)
	}
	stop := make(chan struct{})
	go l.renew(held, token, stop)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			release()
		})
	}, nil
}

// renew extends the leases on keys until stop is closed.
func (l *KeyLock) renew(keys []string, token string, stop <-chan struct{}) {
	interval := max(l.ttl/3, time.Millisecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		for _, key := range keys {
			n, err := extendScript.Run(ctx, client, []string{key}, token, l.ttl.Milliseconds()).Int()
			if err != nil || n == 0 {
				logger.Warn(ctx, "Lock lease not extended", zap.String("key", key), zap.Error(err))
			}
		}
		cancel()
	}
}

func (l *KeyLock) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := SetNX(ctx, key, token, l.ttl)
		if err != nil && ctx.Err() == nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ErrLockNotAcquired
		case <-ticker.C:
		}
	}
}

func sortedUnique(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
