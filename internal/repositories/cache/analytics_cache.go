package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const analyticsKey = "shopledger:analytics:snapshot"

// RedisAnalyticsCache keeps the latest analytics snapshot in Redis for ttl.
type RedisAnalyticsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisAnalyticsCache creates a snapshot cache.
func NewRedisAnalyticsCache(rdb *redis.Client, ttl time.Duration) *RedisAnalyticsCache {
	return &RedisAnalyticsCache{rdb: rdb, ttl: ttl}
}

var _ portsrepo.AnalyticsCache = (*RedisAnalyticsCache)(nil)

// GetAnalytics returns the cached snapshot, or nil on a miss.
func (c *RedisAnalyticsCache) GetAnalytics(ctx context.Context) (*domain.Analytics, error) {
	raw, err := c.rdb.Get(ctx, analyticsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read analytics snapshot: %w", err)
	}

	var snapshot domain.Analytics
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode analytics snapshot: %w", err)
	}
	return &snapshot, nil
}

// SetAnalytics stores snapshot until the ttl expires.
func (c *RedisAnalyticsCache) SetAnalytics(ctx context.Context, snapshot domain.Analytics) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode analytics snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, analyticsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store analytics snapshot: %w", err)
	}
	return nil
}
