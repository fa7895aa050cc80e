package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis history backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisBackend keeps the JSON snapshot under a single key.
type RedisBackend struct {
	client redisClient
	closer func() error
	key    string
}

// NewRedisBackend connects and verifies the server is reachable.
func NewRedisBackend(ctx context.Context, opts RedisOptions) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	return &RedisBackend{client: client, closer: client.Close, key: opts.Key}, nil
}

func (rb *RedisBackend) Load(ctx context.Context) ([]Record, error) {
	data, err := rb.client.Get(ctx, rb.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rb.key, err)
	}
	return decodeRecords(data)
}

// Save overwrites the key without expiry; retention is enforced by pruning.
func (rb *RedisBackend) Save(ctx context.Context, records []Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}
	if err := rb.client.Set(ctx, rb.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", rb.key, err)
	}
	return nil
}

func (rb *RedisBackend) Close() error {
	if rb.closer == nil {
		return nil
	}
	return rb.closer()
}
