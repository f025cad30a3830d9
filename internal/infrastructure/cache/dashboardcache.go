package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DashboardCache stores computed per-university dashboard snapshots in Redis
// with a TTL. A miss is not an error: callers recompute and repopulate.
type DashboardCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{
		client: client,
		prefix: "dashboard:",
		ttl:    ttl,
	}
}

// Get returns the cached snapshot for the university, or (nil, nil) on miss.
func (c *DashboardCache) Get(ctx context.Context, universitySID string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+universitySID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read dashboard cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached dashboard: %w", err)
	}
	return true, nil
}

// Set stores the snapshot with the configured TTL.
func (c *DashboardCache) Set(ctx context.Context, universitySID string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard snapshot: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+universitySID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write dashboard cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot for the university.
func (c *DashboardCache) Invalidate(ctx context.Context, universitySID string) error {
	if err := c.client.Del(ctx, c.prefix+universitySID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate dashboard cache: %w", err)
	}
	return nil
}
