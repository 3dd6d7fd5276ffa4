package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const quotaKey = "brutalcast:ratelimit"

// RedisQuotaStore persists quota state in Redis, for deployments where
// several instances share one quota.
type RedisQuotaStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisQuotaStore(addr string) (*RedisQuotaStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisQuotaStore{client: client, ctx: ctx}, nil
}

func (s *RedisQuotaStore) Load() (QuotaState, error) {
	var state QuotaState

	data, err := s.client.Get(s.ctx, quotaKey).Result()
	if err == redis.Nil {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("failed to read rate limit state: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return QuotaState{}, fmt.Errorf("failed to decode rate limit state: %w", err)
	}
	return state, nil
}

func (s *RedisQuotaStore) Save(state QuotaState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode rate limit state: %w", err)
	}

	// Let the key expire with the window so stale state cleans itself up.
	ttl := time.Until(state.Reset)
	if ttl <= 0 {
		ttl = 0
	}
	if err := s.client.Set(s.ctx, quotaKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write rate limit state: %w", err)
	}
	return nil
}
