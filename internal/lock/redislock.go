package lock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	repriceKeyPrefix = "lock:reprice:"
	defaultTTL       = 2 * time.Minute
)

// Locker serializes reprice runs with a Redis SetNX mutex keyed per quote.
// The token-checked release keeps a holder whose lock already expired from
// deleting a lock a later run re-acquired.
type Locker struct {
	R            *redis.Client
	TTL          time.Duration // lock lifetime; defaults to the reprice task budget
	RetryBackoff time.Duration
}

// WithQuoteLock executes fn while holding the reprice lock for quoteID. The
// lock is released when fn returns, even on error. When another holder keeps
// the lock until ctx is cancelled the context error is returned.
func (l Locker) WithQuoteLock(ctx context.Context, quoteID uuid.UUID, fn func(context.Context) error) error {
	if l.R == nil {
		return errors.New("lock: redis client not configured")
	}
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	ttl := l.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	retry := l.RetryBackoff
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	key := repriceKeyPrefix + quoteID.String()
	token := uuid.NewString()

	for {
		ok, err := l.R.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			defer l.release(context.Background(), key, token)
			return fn(ctx)
		}
		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l Locker) release(ctx context.Context, key, token string) {
	const script = `if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`
	if err := l.R.Eval(ctx, script, []string{key}, token).Err(); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unknown command") {
			_ = l.R.Del(ctx, key).Err()
		}
	}
}
