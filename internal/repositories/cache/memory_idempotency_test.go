package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIdempotencyStore_RememberAndExpire(t *testing.T) {
	s := NewMemoryIdempotencyStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_, ok, err := s.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remember(ctx, "k1", 77, time.Hour))
	id, ok, err := s.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(77), id)

	now = now.Add(2 * time.Hour)
	_, ok, err = s.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryIdempotencyStore_LockSerialisesSameKey(t *testing.T) {
	s := NewMemoryIdempotencyStore()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := s.Lock(ctx, "same")
			require.NoError(t, err)
			n := atomic.AddInt32(&inside, 1)
			for {
				old := atomic.LoadInt32(&maxInside)
				if n <= old || atomic.CompareAndSwapInt32(&maxInside, old, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, s.locks, "lock entries are dropped once released")
}

func TestMemoryIdempotencyStore_LockHonoursContext(t *testing.T) {
	s := NewMemoryIdempotencyStore()

	unlock, err := s.Lock(context.Background(), "busy")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.Lock(ctx, "busy")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.Empty(t, s.locks, "abandoned waiters do not leak lock entries")

	again, err := s.Lock(context.Background(), "busy")
	require.NoError(t, err)
	again()
}

func TestMemoryIdempotencyStore_RememberPrunesExpiredKeys(t *testing.T) {
	s := NewMemoryIdempotencyStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Remember(ctx, "old-1", 1, time.Minute))
	require.NoError(t, s.Remember(ctx, "old-2", 2, time.Minute))
	require.NoError(t, s.Remember(ctx, "fresh", 3, 3*time.Hour))

	now = now.Add(time.Hour)
	require.NoError(t, s.Remember(ctx, "new", 4, time.Minute))

	assert.Len(t, s.keys, 2)
	assert.Contains(t, s.keys, "fresh")
	assert.Contains(t, s.keys, "new")
}
