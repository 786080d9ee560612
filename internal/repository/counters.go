package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Emmanuel3dev/market-server/internal/domain"
)

const counterKeyPrefix = "counter:"

// CounterStore keeps per-user daily order counters in Redis.
type CounterStore struct {
	client *redis.Client
}

// NewCounterStore creates and pings a Redis-backed counter store.
func NewCounterStore(addr string) (*CounterStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &CounterStore{client: client}, nil
}

// NewCounterStoreWithClient wraps an existing client; tests use miniature or
// mocked clients through this path.
func NewCounterStoreWithClient(client *redis.Client) *CounterStore {
	return &CounterStore{client: client}
}

// Close releases the underlying client.
func (s *CounterStore) Close() error { return s.client.Close() }

func counterKey(userID string) string { return counterKeyPrefix + userID }

// Get returns the counter for a user, or nil when none exists yet.
func (s *CounterStore) Get(ctx context.Context, userID string) (*domain.DailyCounter, error) {
	data, err := s.client.Get(ctx, counterKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get counter %s: %w", userID, err)
	}
	var c domain.DailyCounter
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode counter %s: %w", userID, err)
	}
	return &c, nil
}

// Increment bumps the user's daily usage by one, creating the counter if absent.
func (s *CounterStore) Increment(ctx context.Context, userID string, now time.Time) error {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if c == nil {
		c = &domain.DailyCounter{UserID: userID, LastResetDate: now}
	}
	c.DailyOrdersUsed++
	return s.put(ctx, c)
}

// ResetAll upserts a zeroed counter for every given user in one pipeline, so a
// failed batch leaves no partially reset state behind.
func (s *CounterStore) ResetAll(ctx context.Context, userIDs []string, now time.Time) error {
	pipe := s.client.TxPipeline()
	for _, id := range userIDs {
		data, err := json.Marshal(domain.DailyCounter{
			UserID:        id,
			LastResetDate: now,
		})
		if err != nil {
			return fmt.Errorf("encode counter %s: %w", id, err)
		}
		pipe.Set(ctx, counterKey(id), data, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("reset counters: %w", err)
	}
	return nil
}

func (s *CounterStore) put(ctx context.Context, c *domain.DailyCounter) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode counter %s: %w", c.UserID, err)
	}
	if err := s.client.Set(ctx, counterKey(c.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("set counter %s: %w", c.UserID, err)
	}
	return nil
}
