package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis constructs a redis-backed refresh store. Records live under the
// refresh_token: namespace with a per-record TTL, so abandoned sessions
// clean themselves up without any background process on our side.
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "refresh_token:"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &redisStore{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

func (s *redisStore) key(username string) string {
	return s.prefix + username
}

func (s *redisStore) Put(ctx context.Context, username, token string) error {
	if username == "" {
		return fmt.Errorf("username required")
	}
	return s.client.Set(ctx, s.key(username), token, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, username string) (string, error) {
	raw, err := s.client.Get(ctx, s.key(username)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNotFound
		}
		return "", err
	}
	return raw, nil
}

func (s *redisStore) Exists(ctx context.Context, username string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(username)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisStore) Delete(ctx context.Context, username string) error {
	return s.client.Del(ctx, s.key(username)).Err()
}

func (s *redisStore) Close(context.Context) error {
	return s.client.Close()
}
