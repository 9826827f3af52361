package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"namegate/internal/naming"
	"namegate/pkg/platform/sentinel"
)

// Redis key prefix for resolver entries.
const resolverKeyPrefix = "ng:resolve:"

// RedisStore is a Redis-backed resolver store for deployments where multiple
// instances serve resolution reads.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed resolver store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, hash naming.NameHash) (naming.AccountID, error) {
	address, err := s.client.Get(ctx, resolverKeyPrefix+hash.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get resolver entry: %w", err)
	}
	return naming.AccountID(address), nil
}

func (s *RedisStore) Set(ctx context.Context, hash naming.NameHash, address naming.AccountID) error {
	// No TTL: entry lifetime is governed by the owning registration.
	if err := s.client.Set(ctx, resolverKeyPrefix+hash.String(), string(address), 0).Err(); err != nil {
		return fmt.Errorf("set resolver entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, hash naming.NameHash) error {
	if err := s.client.Del(ctx, resolverKeyPrefix+hash.String()).Err(); err != nil {
		return fmt.Errorf("delete resolver entry: %w", err)
	}
	return nil
}
