package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRefreshLock is the per-user refresh lock backing the token lifecycle
// manager's single-flight guarantee. It is redis-backed so the guarantee
// holds across processes, not just within one.
type RedisRefreshLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisRefreshLock creates a refresh lock store. The TTL bounds how long a
// crashed holder can block other callers.
func NewRedisRefreshLock(client *redis.Client, ttl time.Duration) *RedisRefreshLock {
	return &RedisRefreshLock{
		client: client,
		prefix: "sync:refresh:lock:",
		ttl:    ttl,
	}
}

// Acquire attempts to take the lock for userID. Returns false when another
// caller holds it.
func (l *RedisRefreshLock) Acquire(ctx context.Context, userID uint) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(userID), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire refresh lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock for userID.
func (l *RedisRefreshLock) Release(ctx context.Context, userID uint) error {
	if err := l.client.Del(ctx, l.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to release refresh lock: %w", err)
	}
	return nil
}

func (l *RedisRefreshLock) key(userID uint) string {
	return fmt.Sprintf("%s%d", l.prefix, userID)
}
