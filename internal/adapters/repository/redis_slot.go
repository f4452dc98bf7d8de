package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/taskmaster/todo/internal/infrastructure/config"
)

// RedisSlot stores slot values as plain Redis strings without expiry
type RedisSlot struct {
	client *redis.Client
}

// NewRedisSlot connects to Redis and verifies the connection
func NewRedisSlot(ctx context.Context, cfg config.RedisConfig) (*RedisSlot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.GetAddr(), err)
	}

	return &RedisSlot{client: client}, nil
}

// NewRedisSlotFromClient wraps an existing client
func NewRedisSlotFromClient(client *redis.Client) *RedisSlot {
	return &RedisSlot{client: client}
}

func (s *RedisSlot) Read(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot %q: %w", key, err)
	}
	return b, true, nil
}

func (s *RedisSlot) Write(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

func (s *RedisSlot) Close() error {
	return s.client.Close()
}
