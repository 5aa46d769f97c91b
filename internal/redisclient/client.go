package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"checkout-service/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetProduct retrieves a cached product. Returns (nil, nil) on cache miss.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	key := fmt.Sprintf("product:%s", id)

	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("corrupt product cache entry %s: %w", id, err)
	}
	return &product, nil
}

// SetProduct caches a product with TTL
func (c *Client) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, fmt.Sprintf("product:%s", product.ID), data, ttl).Err()
}

// AcquireReconcileLock takes a best-effort per-session lock so concurrent
// verifiers don't both hit the gateway. Correctness does not depend on it;
// the order table's unique key is the real guard.
func (c *Client) AcquireReconcileLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("reconcile:%s", sessionID), "1", ttl).Result()
}

// ReleaseReconcileLock releases the per-session lock
func (c *Client) ReleaseReconcileLock(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("reconcile:%s", sessionID)).Err()
}
