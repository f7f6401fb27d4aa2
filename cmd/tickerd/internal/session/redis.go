package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Compile-time check to ensure RedisBackend implements Backend
var _ Backend = (*RedisBackend)(nil)

// RedisBackend keeps each session in one hash so the whole session expires as a unit.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (r *RedisBackend) Scoped(sessionID string) Store {
	return &redisStore{backend: r, key: keyPrefix + sessionID}
}

// Ping checks connectivity at startup.
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

type redisStore struct {
	backend *RedisBackend
	key     string
}

func (s *redisStore) Get(ctx context.Context, field string) (string, error) {
	val, err := s.backend.client.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrAbsent
	}
	if err != nil {
		return "", fmt.Errorf("redis hget %s: %w", field, err)
	}
	return val, nil
}

// Set writes the field and slides the session expiry in one transaction.
func (s *redisStore) Set(ctx context.Context, field, value string) error {
	pipe := s.backend.client.TxPipeline()
	pipe.HSet(ctx, s.key, field, value)
	pipe.Expire(ctx, s.key, s.backend.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset %s: %w", field, err)
	}
	return nil
}
