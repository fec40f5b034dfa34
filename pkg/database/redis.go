package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis, retrying with exponential backoff up to maxAttempts.
func NewRedisClient(ctx context.Context, addr string, maxAttempts int) (*redis.Client, *redislock.Client, error) {
	if addr == "" {
		return nil, nil, fmt.Errorf("redis address cannot be empty")
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			DB:       0,
			PoolSize: 50,
		})
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			log.Printf("Successfully connected to Redis (attempt=%d addr=%s).", attempt, addr)
			return rdb, redislock.New(rdb), nil
		}
		_ = rdb.Close()

		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		log.Printf("failed to connect redis (attempt=%d addr=%s): %v; retrying in %s", attempt, addr, lastErr, sleep)
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
	return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, lastErr)
}

// CloseRedis closes the Redis client.
func CloseRedis(rdb *redis.Client) {
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis client: %v", err)
			return
		}
		log.Println("Redis client closed.")
	}
}
