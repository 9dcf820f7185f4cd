package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ortoclub/platform-api/internal/config"
)

// Client wraps Redis for the concerns where staleness is harmless: rate
// limit counters and short-TTL CDN status caching. Authorization-relevant
// records (tenant, membership, entitlement) are never cached here;
// suspension must take effect on the next request.
type Client struct {
	Client *redis.Client
}

// NewClient creates a new Redis client
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{Client: client}, nil
}

// Get retrieves a value from Redis
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

// Set sets a value in Redis with expiration
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.Client.Set(ctx, key, value, expiration).Err()
}

// Delete removes keys from Redis
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

// IncrWithTTL increments a counter, setting the TTL when the key is new.
// Used by the waitlist/login rate limiter.
func (c *Client) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.Client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// GetVideoStatus retrieves a cached CDN processing status for a video.
func (c *Client) GetVideoStatus(ctx context.Context, bunnyVideoID string) (string, error) {
	return c.Get(ctx, fmt.Sprintf("video:status:%s", bunnyVideoID))
}

// SetVideoStatus caches a CDN processing status briefly so admin dashboards
// polling many videos do not hammer the CDN API.
func (c *Client) SetVideoStatus(ctx context.Context, bunnyVideoID, status string, expiration time.Duration) error {
	return c.Set(ctx, fmt.Sprintf("video:status:%s", bunnyVideoID), status, expiration)
}

// Close closes the Redis client
func (c *Client) Close() error {
	return c.Client.Close()
}
