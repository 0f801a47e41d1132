package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, key).Result()
	return count > 0, err
}

// Set-based index, used to enumerate documents without a keyspace scan.

func (s *Store) IndexAdd(ctx context.Context, indexKey string, member string) error {
	return s.client.SAdd(ctx, indexKey, member).Err()
}

func (s *Store) IndexRemove(ctx context.Context, indexKey string, member string) error {
	return s.client.SRem(ctx, indexKey, member).Err()
}

func (s *Store) IndexMembers(ctx context.Context, indexKey string) ([]string, error) {
	return s.client.SMembers(ctx, indexKey).Result()
}
