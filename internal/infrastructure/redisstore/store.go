package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-auth-api/internal/config"
	"github.com/go-auth-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// takeIfEqualLua deletes KEYS[1] only while it holds ARGV[1].
var takeIfEqualLua = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
	return 0
end
if v ~= ARGV[1] then
	return 2
end
redis.call("DEL", KEYS[1])
return 1
`)

// CodeStore keeps ephemeral verification codes in redis with a per-key TTL.
// Take relies on GETDEL so concurrent redemptions of one key see exactly one
// winner.
type CodeStore struct {
	redis redis.UniversalClient
}

// NewClient builds a redis client from cfg.
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func NewCodeStore(client redis.UniversalClient) *CodeStore {
	return &CodeStore{redis: client}
}

// Set stores value under key, replacing any previous value and TTL.
func (s *CodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ephemeral code ttl must be positive")
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *CodeStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("code not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

// Take atomically fetches and removes key.
func (s *CodeStore) Take(ctx context.Context, key string) (string, error) {
	v, err := s.redis.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("code not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("redis getdel: %w", err)
	}
	return v, nil
}

// TakeIfEqual removes key only if it still holds value. A missing key or a
// different value reports not-found and leaves the key untouched.
func (s *CodeStore) TakeIfEqual(ctx context.Context, key, value string) error {
	res, err := takeIfEqualLua.Run(ctx, s.redis, []string{key}, value).Int()
	if err != nil {
		return fmt.Errorf("redis take-if-equal: %w", err)
	}
	if res != 1 {
		return fmt.Errorf("code not found: %w", domain.ErrNotFound)
	}
	return nil
}

// Ping verifies connectivity at startup.
func (s *CodeStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
