// AngelaMos | 2026
// redis.go

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage stores each scope as one hash so a scope expires as a unit.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (r *RedisStorage) Load(
	ctx context.Context,
	key string,
) (map[string]string, error) {
	values, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("load session hash: %w", err)
	}
	return values, nil
}

func (r *RedisStorage) Save(
	ctx context.Context,
	key string,
	values map[string]string,
	ttl time.Duration,
) error {
	fields := make(map[string]any, len(values))
	for k, v := range values {
		fields[k] = v
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session hash: %w", err)
	}

	return nil
}

func (r *RedisStorage) Remove(
	ctx context.Context,
	key string,
	names ...string,
) error {
	if len(names) == 0 {
		return nil
	}

	if err := r.client.HDel(ctx, key, names...).Err(); err != nil {
		return fmt.Errorf("remove session fields: %w", err)
	}

	return nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
