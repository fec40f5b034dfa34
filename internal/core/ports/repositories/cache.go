package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
)

// AnalyticsCache stores the latest analytics snapshot. Misses are reported as (nil, nil).
type AnalyticsCache interface {
	GetAnalytics(ctx context.Context) (*domain.Analytics, error)
	SetAnalytics(ctx context.Context, snapshot domain.Analytics) error
}

// IdempotencyStore remembers which transaction a client-supplied key produced.
type IdempotencyStore interface {
	// Lock serialises requests sharing key. The returned func releases it.
	Lock(ctx context.Context, key string) (func(), error)
	Lookup(ctx context.Context, key string) (int64, bool, error)
	Remember(ctx context.Context, key string, transactionID int64, ttl time.Duration) error
}
