// internal/services/cache_service.go
// Cache service for Redis-backed key/value helpers, the rate-limit counter,
// and the advisory lock guarding concurrent updateMatchResult calls on the
// same match.

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService provides generic JSON get/set helpers, the rate limiter's
// counter, and the SETNX advisory lock used to surface StaleState on
// conflicting concurrent match updates. No engine or handler path reads
// bracket data through this cache.
type CacheService struct {
	client *redis.Client
	logger *log.Logger
}

// NewCacheService creates a new cache service.
func NewCacheService(client *redis.Client, logger *log.Logger) *CacheService {
	return &CacheService{
		client: client,
		logger: logger,
	}
}

// Set stores a value in cache with expiration.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Get retrieves a value from cache.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("key not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

// Delete removes a key from cache.
func (s *CacheService) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}

	return nil
}

// Increment increments a counter in cache, used by the rate limiter.
func (s *CacheService) Increment(ctx context.Context, key string, expiration time.Duration) (int, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiration)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment: %w", err)
	}

	return int(incr.Val()), nil
}

// GetOrSet gets a value from cache or populates it via fn on a miss.
func (s *CacheService) GetOrSet(ctx context.Context, key string, dest interface{}, fn func() (interface{}, error), expiration time.Duration) error {
	if err := s.Get(ctx, key, dest); err == nil {
		return nil
	}

	value, err := fn()
	if err != nil {
		return err
	}

	if err := s.Set(ctx, key, value, expiration); err != nil {
		s.logger.Printf("failed to cache value for key %s: %v", key, err)
	}

	data, _ := json.Marshal(value)
	return json.Unmarshal(data, dest)
}

// InvalidateBracket drops every cached key matching bracket:<id>:*. Nothing
// in this module calls it.
func (s *CacheService) InvalidateBracket(ctx context.Context, bracketID int64) error {
	pattern := fmt.Sprintf("bracket:%d:*", bracketID)

	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}

	return nil
}

// matchLockTTL bounds how long an advisory lock on a match survives a
// crashed holder before another updateMatchResult call can proceed.
const matchLockTTL = 10 * time.Second

// AcquireMatchLock takes the SETNX advisory lock guarding updateMatchResult
// against the StaleState race described in the concurrency model: two
// concurrent calls on dependent matches racing to propagate through the
// same bracket. A false return means another call is already propagating
// results for this match and the caller should surface StaleState.
func (s *CacheService) AcquireMatchLock(ctx context.Context, matchID int64) (bool, error) {
	key := fmt.Sprintf("lock:match:%d", matchID)
	ok, err := s.client.SetNX(ctx, key, "1", matchLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire match lock: %w", err)
	}
	return ok, nil
}

// ReleaseMatchLock frees the advisory lock once propagation completes.
func (s *CacheService) ReleaseMatchLock(ctx context.Context, matchID int64) error {
	key := fmt.Sprintf("lock:match:%d", matchID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release match lock: %w", err)
	}
	return nil
}

// Ping checks if cache is available.
func (s *CacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
