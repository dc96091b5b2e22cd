// Package cache is a read-through response cache for search results. A cache
// miss or a cache failure always degrades to a direct engine call; the cache
// can slow a request down only by one round trip, never fail it.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

const keyPrefix = "moviedex:search:"

// Config holds connection parameters for the response cache.
type Config struct {
	Addrs    []string
	Password string
	TTL      time.Duration
}

// Cache stores serialized search responses in Redis.
type Cache struct {
	client rueidis.Client
	ttl    time.Duration
}

// New creates a response cache.
func New(cfg Config) (*Cache, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Cache{client: client, ttl: cfg.TTL}, nil
}

// Get returns the cached payload for key, reporting whether it was present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	cmd := c.client.B().Get().Key(keyPrefix + key).Build()
	data, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return data, true, nil
}

// Set stores a payload under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	cmd := c.client.B().Set().Key(keyPrefix + key).Value(string(value)).
		Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	cmd := c.client.B().Ping().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (c *Cache) Close() {
	c.client.Close()
}
