package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CacheClient defines the interface for caching operations. Values are
// opaque bytes; callers own the encoding.
type CacheClient interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value in the cache. A zero TTL uses the configured default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error

	// Close closes the cache client and releases resources.
	Close() error
}

// CacheConfig holds configuration for the cache.
type CacheConfig struct {
	Type    string        `mapstructure:"type"` // memory, redis or none
	TTL     time.Duration `mapstructure:"ttl"`
	MaxSize int           `mapstructure:"max_size"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// NewCache builds the client selected by config.Type. It returns nil for
// "none", which callers treat as caching disabled.
func NewCache(config CacheConfig) (CacheClient, error) {
	switch config.Type {
	case "", "memory":
		return NewMemoryCache(config), nil
	case "redis":
		return NewRedisCache(config)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", config.Type)
	}
}

// MemoryCache implements an in-memory cache client.
type MemoryCache struct {
	mu     sync.Mutex
	config CacheConfig
	data   map[string]*cacheItem
	now    func() time.Time
}

// cacheItem represents a cached item with metadata.
type cacheItem struct {
	Value     []byte
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewMemoryCache creates a new in-memory cache instance.
func NewMemoryCache(config CacheConfig) *MemoryCache {
	return &MemoryCache{
		config: config,
		data:   make(map[string]*cacheItem),
		now:    time.Now,
	}
}

// Get retrieves a value from the memory cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.liveItem(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), item.Value...), true, nil
}

// Set stores a value in the memory cache.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.TTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.data[key] = &cacheItem{
		Value:     append([]byte(nil), value...),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if c.config.MaxSize > 0 && len(c.data) > c.config.MaxSize {
		c.cleanup()
	}
	if c.config.MaxSize > 0 && len(c.data) > c.config.MaxSize {
		c.evictOldest()
	}

	return nil
}

// Delete removes a value from the memory cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the memory cache.
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.liveItem(key)
	return ok, nil
}

// Clear removes all values from the memory cache.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]*cacheItem)
	return nil
}

// Close closes the memory cache.
func (c *MemoryCache) Close() error {
	return c.Clear(context.Background())
}

// liveItem returns the item for key, dropping it if expired. Callers hold mu.
func (c *MemoryCache) liveItem(key string) (*cacheItem, bool) {
	item, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(item.ExpiresAt) {
		delete(c.data, key)
		return nil, false
	}
	return item, true
}

// cleanup removes expired items from the cache.
func (c *MemoryCache) cleanup() {
	now := c.now()
	for key, item := range c.data {
		if !now.Before(item.ExpiresAt) {
			delete(c.data, key)
		}
	}
}

// evictOldest drops the earliest-written items until the size limit holds.
func (c *MemoryCache) evictOldest() {
	for len(c.data) > c.config.MaxSize {
		var (
			oldestKey string
			oldest    time.Time
		)
		for key, item := range c.data {
			if oldestKey == "" || item.CreatedAt.Before(oldest) {
				oldestKey, oldest = key, item.CreatedAt
			}
		}
		delete(c.data, oldestKey)
	}
}

// GetStats returns cache statistics.
func (c *MemoryCache) GetStats() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for _, item := range c.data {
		if !now.Before(item.ExpiresAt) {
			expired++
		}
	}

	return map[string]interface{}{
		"total_items":   len(c.data),
		"expired_items": expired,
		"active_items":  len(c.data) - expired,
		"max_size":      c.config.MaxSize,
	}
}
