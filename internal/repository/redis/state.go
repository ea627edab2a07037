package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/Gani-23/KrushiGowrava/pkg/errors"
)

const keyPrefix = "session:"

// StateRepository implements repository.StateRepository using Redis. Each
// session entry lives under its own key with a sliding TTL, so abandoned
// sessions expire on their own.
type StateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateRepository creates a new Redis-backed session state repository.
func NewStateRepository(client *redis.Client, ttl time.Duration) *StateRepository {
	return &StateRepository{
		client: client,
		ttl:    ttl,
	}
}

func stateKey(sessionID, key string) string {
	return keyPrefix + sessionID + ":" + key
}

// Get retrieves a session state entry from Redis.
func (r *StateRepository) Get(ctx context.Context, sessionID, key string) (string, error) {
	value, err := r.client.Get(ctx, stateKey(sessionID, key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", apperrors.NotFound("session state", sessionID+"/"+key)
		}
		return "", fmt.Errorf("redis get session state: %w", err)
	}
	return value, nil
}

// Set persists a session state entry to Redis with the configured TTL.
func (r *StateRepository) Set(ctx context.Context, sessionID, key, value string) error {
	if err := r.client.Set(ctx, stateKey(sessionID, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session state: %w", err)
	}
	return nil
}

// Delete removes session state entries from Redis.
func (r *StateRepository) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = stateKey(sessionID, k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del session state: %w", err)
	}
	return nil
}
