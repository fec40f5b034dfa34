package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
)

type rememberedKey struct {
	transactionID int64
	expiresAt     time.Time
}

// keyLock is a one-slot semaphore so waiters can give up when their context ends.
type keyLock struct {
	slot chan struct{}
	refs int
}

// MemoryIdempotencyStore is the single-process fallback used when Redis is not configured.
type MemoryIdempotencyStore struct {
	mu    sync.Mutex
	locks map[string]*keyLock
	keys  map[string]rememberedKey
	now   func() time.Time
}

// NewMemoryIdempotencyStore creates an empty store.
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		locks: make(map[string]*keyLock),
		keys:  make(map[string]rememberedKey),
		now:   time.Now,
	}
}

var _ portsrepo.IdempotencyStore = (*MemoryIdempotencyStore)(nil)

// Lock blocks until no other caller holds key or ctx is done.
func (s *MemoryIdempotencyStore) Lock(ctx context.Context, key string) (func(), error) {
	s.mu.Lock()
	kl, ok := s.locks[key]
	if !ok {
		kl = &keyLock{slot: make(chan struct{}, 1)}
		s.locks[key] = kl
	}
	kl.refs++
	s.mu.Unlock()

	select {
	case kl.slot <- struct{}{}:
	case <-ctx.Done():
		s.release(key, kl)
		return nil, fmt.Errorf("waiting for idempotency key %q: %w", key, ctx.Err())
	}
	return func() {
		<-kl.slot
		s.release(key, kl)
	}, nil
}

func (s *MemoryIdempotencyStore) release(key string, kl *keyLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(s.locks, key)
	}
}

// Lookup returns the unexpired transaction id stored for key.
func (s *MemoryIdempotencyStore) Lookup(ctx context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rk, ok := s.keys[key]
	if !ok {
		return 0, false, nil
	}
	if s.now().After(rk.expiresAt) {
		delete(s.keys, key)
		return 0, false, nil
	}
	return rk.transactionID, true, nil
}

// Remember stores transactionID for key until ttl elapses.
func (s *MemoryIdempotencyStore) Remember(ctx context.Context, key string, transactionID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, rk := range s.keys {
		if now.After(rk.expiresAt) {
			delete(s.keys, k)
		}
	}
	s.keys[key] = rememberedKey{transactionID: transactionID, expiresAt: now.Add(ttl)}
	return nil
}
