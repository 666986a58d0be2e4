package lock

import (
	"context"
	"fmt"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace = "fsm"
	lockPrefix   = "order_lock"

	DefaultLockTTL       = 15 * time.Second
	DefaultRetryInterval = 25 * time.Millisecond
)

// releaseScript deletes the key only when it still holds the caller's token, so a
// holder whose lease expired never releases someone else's lock.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type cmdable interface {
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Eval(context.Context, string, []string, ...any) *redis.Cmd
}

// RedisOrderLocker holds per-order leases in redis with SET NX PX.
type RedisOrderLocker struct {
	store         cmdable
	ttl           time.Duration
	retryInterval time.Duration
	log           *logger.Logger
}

// NewRedisOrderLocker creates a locker. Non-positive durations fall back to the defaults.
// The lease ttl must exceed the transition timeout.
func NewRedisOrderLocker(store cmdable, ttl, retryInterval time.Duration, log *logger.Logger) *RedisOrderLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &RedisOrderLocker{
		store:         store,
		ttl:           ttl,
		retryInterval: retryInterval,
		log:           log.Component("redis_order_locker"),
	}
}

// Key returns the redis key guarding orderID.
func Key(orderID kernel.UUID) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, lockPrefix, orderID.String())
}

// Lock polls SET NX until the lease is acquired or ctx is done.
func (l *RedisOrderLocker) Lock(ctx context.Context, orderID kernel.UUID) (func(), error) {
	key := Key(orderID)
	token := uuid.NewString()

	for {
		ok, err := l.store.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire order lock: %w", err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// the caller's context may already be done; release on a fresh one
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := l.store.Eval(releaseCtx, releaseScript, []string{key}, token).Err(); err != nil {
			l.log.Warn(l.log.WithOrderID(releaseCtx, orderID.String()), "order lock release failed; lease will expire", err)
		}
	}, nil
}
