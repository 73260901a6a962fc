package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opencrm/backend/internal/domain/shared"
	"github.com/opencrm/backend/internal/infrastructure/config"
)

const defaultKeyPrefix = "ingest:replay:"

// RedisIdempotencyStore implements IdempotencyStore on Redis, so
// replayed bulk requests are detected across instances
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store
func NewRedisIdempotencyStore(cfg config.RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}, nil
}

// NewRedisIdempotencyStoreWithClient creates a store around an existing
// client, useful for testing or when sharing a client across components
func NewRedisIdempotencyStoreWithClient(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed marks a request key as seen with a TTL using SETNX, so
// exactly one concurrent caller wins. Returns true if the key was newly
// marked, false if it already existed.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark request as processed: %w", err)
	}
	return result, nil
}

// IsProcessed checks whether a request key has been seen
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check request key: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
