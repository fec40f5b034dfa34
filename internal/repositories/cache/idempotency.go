package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix = "shopledger:idempotency:"
	lockPrefix        = "shopledger:lock:idempotency:"
	lockTTL           = 30 * time.Second
	lockWait          = 10 * time.Second
)

// RedisIdempotencyStore shares idempotency keys across instances.
type RedisIdempotencyStore struct {
	rdb    *redis.Client
	locker *redislock.Client
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store.
func NewRedisIdempotencyStore(rdb *redis.Client, locker *redislock.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, locker: locker}
}

var _ portsrepo.IdempotencyStore = (*RedisIdempotencyStore)(nil)

// Lock obtains a distributed lock for key, waiting up to lockWait for a concurrent holder.
func (s *RedisIdempotencyStore) Lock(ctx context.Context, key string) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	lock, err := s.locker.Obtain(waitCtx, lockPrefix+key, lockTTL, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return nil, apperrors.NewCodedError(apperrors.ErrConflict, apperrors.CodeConflict,
			"request with idempotency key %q is already in progress", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain idempotency lock: %w", err)
	}

	return func() {
		// Release on a fresh context so a cancelled request still frees the key.
		_ = lock.Release(context.Background())
	}, nil
}

// Lookup returns the transaction id stored for key.
func (s *RedisIdempotencyStore) Lookup(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.rdb.Get(ctx, idempotencyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt idempotency value for key %q: %w", key, err)
	}
	return id, true, nil
}

// Remember stores the transaction id for key.
func (s *RedisIdempotencyStore) Remember(ctx context.Context, key string, transactionID int64, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, idempotencyPrefix+key, strconv.FormatInt(transactionID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}
