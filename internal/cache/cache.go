// Package cache keeps short-lived JSON snapshots of record-store reads in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"advisory_portal/platform/config"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "advisory:snapshot:"

// Store reads and writes JSON snapshots with a fixed TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to the redis instance in cfg. It returns (nil, nil) when no
// REDIS_URL is configured; callers treat a nil *Store as "no cache".
func New(ctx context.Context, cfg config.CacheConfig) (*Store, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg.GetCacheTTL()), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Store{client: client, ttl: ttl}
}

// Get decodes the snapshot stored under key into dst. The boolean reports a hit.
func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	if s == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// a snapshot written by an older build is treated as a miss
		_ = s.client.Del(ctx, keyPrefix+key).Err()
		return false, nil
	}
	return true, nil
}

// Set stores value under key for the configured TTL.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops the given keys.
func (s *Store) Invalidate(ctx context.Context, keys ...string) error {
	if s == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = keyPrefix + key
	}
	return s.client.Del(ctx, full...).Err()
}

// Ping checks the redis connection; a nil store is always healthy.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close releases the redis connection pool.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
