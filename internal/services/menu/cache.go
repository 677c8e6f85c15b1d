package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"table-service/internal/config"
	"table-service/internal/logger"
	"table-service/internal/models"
)

const menuListKey = "table-service:menu:list"

// Cache is a Redis-backed read cache for the full menu listing. Writes to the
// menu invalidate it; readers fall through to the database on a miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewCache connects to Redis and returns a menu cache
func NewCache(cfg *config.Config, log *logger.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := time.Duration(cfg.Redis.MenuCacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Cache{
		client: client,
		ttl:    ttl,
		logger: log,
	}, nil
}

// GetMenu returns the cached menu listing, or nil on a miss
func (c *Cache) GetMenu(ctx context.Context) ([]models.MenuItem, error) {
	data, err := c.client.Get(ctx, menuListKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read menu cache: %w", err)
	}

	var items []models.MenuItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("failed to decode cached menu: %w", err)
	}

	return items, nil
}

// SetMenu stores the menu listing with the configured TTL
func (c *Cache) SetMenu(ctx context.Context, items []models.MenuItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode menu for cache: %w", err)
	}

	if err := c.client.Set(ctx, menuListKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write menu cache: %w", err)
	}

	return nil
}

// Invalidate drops the cached menu listing
func (c *Cache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, menuListKey).Err(); err != nil {
		c.logger.Error("cache_invalidate_failed", "Failed to invalidate menu cache", "", err, nil)
	}
}

// Close closes the Redis client
func (c *Cache) Close() error {
	return c.client.Close()
}
