package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireCaptureLock attempts to acquire the payment-capture lock for a
// quote, so concurrent capture requests for the same quote cannot race
// past the idempotency check. Returns true if the lock was acquired,
// false if already held.
func (s *LockStore) AcquireCaptureLock(ctx context.Context, quoteID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:capture:%s", quoteID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseCaptureLock releases the payment-capture lock for a quote.
func (s *LockStore) ReleaseCaptureLock(ctx context.Context, quoteID string) error {
	key := fmt.Sprintf("lock:capture:%s", quoteID)

	return s.client.Del(ctx, key).Err()
}
