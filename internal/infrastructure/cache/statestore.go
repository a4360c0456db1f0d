package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flowdesk-inc/flowdesk/internal/shared/biztime"
)

// StateInfo stores per-state data for the OAuth connect flow.
type StateInfo struct {
	UserID       uint      `json:"user_id"`
	CodeVerifier string    `json:"code_verifier"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedisStateStore provides Redis-based state storage for the OAuth connect
// flow. States are one-time use.
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore creates a new RedisStateStore instance.
func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		prefix: "sync:oauth:state:",
		ttl:    ttl,
	}
}

// Set stores the state with its PKCE verifier and owning user.
func (s *RedisStateStore) Set(ctx context.Context, state string, userID uint, codeVerifier string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if codeVerifier == "" {
		return errors.New("code_verifier cannot be empty")
	}

	data, err := json.Marshal(StateInfo{
		UserID:       userID,
		CodeVerifier: codeVerifier,
		CreatedAt:    biztime.NowUTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal state info: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+state, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in redis: %w", err)
	}

	return nil
}

// VerifyAndGet atomically retrieves and deletes the state (GETDEL), enforcing
// one-time use against replay.
func (s *RedisStateStore) VerifyAndGet(ctx context.Context, state string) (*StateInfo, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	data, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.New("state not found or expired")
		}
		return nil, fmt.Errorf("failed to retrieve state from redis: %w", err)
	}

	var stateInfo StateInfo
	if err := json.Unmarshal([]byte(data), &stateInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state info: %w", err)
	}

	return &stateInfo, nil
}
