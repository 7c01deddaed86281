// SPDX-License-Identifier: MIT

package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// KeyPrefix namespaces selection keys in a shared Redis.
const KeyPrefix = "reservo:selection:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps selections in Redis with native key expiry.
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisStore connects and pings Redis.
func NewRedisStore(cfg RedisConfig, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("connected to Redis selection store")
	return &RedisStore{client: client, logger: logger}, nil
}

func redisKey(key string) string { return KeyPrefix + key }

func (s *RedisStore) Load(ctx context.Context, key string) (Selection, bool, error) {
	val, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Selection{}, false, nil
	}
	if err != nil {
		return Selection{}, false, err
	}
	var sel Selection
	if err := json.Unmarshal(val, &sel); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable selection")
		_ = s.client.Del(ctx, redisKey(key)).Err()
		return Selection{}, false, nil
	}
	return sel, true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, sel Selection, ttl time.Duration) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(key), data, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKey(key)).Err()
}

// HealthCheck pings Redis.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }
