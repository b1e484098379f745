package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBlobStore stores blobs as plain redis strings with no expiry.
type RedisBlobStore struct {
	client *redis.Client
}

func NewRedisBlobStore(addr string) *RedisBlobStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisBlobStore{client: rdb}
}

// Ping checks that the server is reachable.
func (r *RedisBlobStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (r *RedisBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %q from redis: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisBlobStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %q in redis: %w", key, err)
	}
	return nil
}

func (r *RedisBlobStore) Close() error {
	return r.client.Close()
}
