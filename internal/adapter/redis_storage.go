package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cquiz/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStorage implements domain.Storage on plain Redis string keys.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage creates a RedisStorage. A zero ttl keeps keys forever.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

// Save writes value under key, refreshing the TTL.
func (r *RedisStorage) Save(ctx context.Context, key string, value string) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Load reads key. It translates redis.Nil to domain.ErrStorageMiss.
func (r *RedisStorage) Load(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrStorageMiss
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Ping checks the health of the Redis server.
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
