package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisManager stores sessions as TTL-bearing Redis keys so they
// survive process restarts and can be shared across instances.
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisManager creates a Redis-backed session manager with the given TTL
func NewRedisManager(client *redis.Client, ttl time.Duration) *RedisManager {
	return &RedisManager{client: client, ttl: ttl}
}

var _ Manager = (*RedisManager)(nil)

func (m *RedisManager) Create(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()

	err := m.client.Set(ctx, keyPrefix+token, strconv.Itoa(userID), m.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (m *RedisManager) Get(ctx context.Context, token string) (int, error) {
	value, err := m.client.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("failed to look up session: %w", err)
	}

	userID, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("corrupt session record: %w", err)
	}
	return userID, nil
}

func (m *RedisManager) Destroy(ctx context.Context, token string) error {
	if err := m.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
