package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "raginsight:rows:"

// Redis shares cached dataset pages between API replicas.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewRedisWithClient(client), nil
}

func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: redisKeyPrefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Redis cache read failed, treating as miss", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, val, ttl).Err(); err != nil {
		slog.Warn("Redis cache write failed", "key", key, "error", err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
