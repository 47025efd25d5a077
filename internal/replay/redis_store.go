// Package replay remembers recently used request signatures so that a
// captured signed request cannot be submitted twice inside its window.
package replay

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sig:"

// RedisStore records used signatures in Redis with a TTL
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to redisURL. ttl should cover the full
// signature window on both sides of server time.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, ttl), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: keyPrefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(clientID string, timestampMillis int64, signature string) string {
	return s.prefix + clientID + ":" + strconv.FormatInt(timestampMillis, 10) + ":" + signature
}

// Claim marks a signature as used. It returns false when the same
// signature was already claimed and has not yet expired.
func (s *RedisStore) Claim(ctx context.Context, clientID string, timestampMillis int64, signature string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(clientID, timestampMillis, signature), 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim signature: %w", err)
	}
	return ok, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// HealthCheck verifies Redis is reachable
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
