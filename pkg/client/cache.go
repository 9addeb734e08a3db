package client

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type cacheItem struct {
	data      []byte
	expiresAt time.Time
}

// ResponseCache is a TTL cache of upstream response bodies keyed by URL.
// It is safe for concurrent use.
type ResponseCache struct {
	mu              sync.RWMutex
	items           map[string]cacheItem
	logger          *zap.Logger
	defaultDuration time.Duration
	maxSize         int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
	hits            int
	misses          int
	now             func() time.Time
}

func NewResponseCache(defaultDuration time.Duration, maxSize int, logger *zap.Logger) *ResponseCache {
	cache := &ResponseCache{
		items:           make(map[string]cacheItem),
		logger:          logger,
		defaultDuration: defaultDuration,
		maxSize:         maxSize,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
		now:             time.Now,
	}

	go cache.startCleanup()

	return cache
}

func (c *ResponseCache) Set(key string, data []byte) {
	if c.defaultDuration <= 0 || c.maxSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	expiresAt := c.now().Add(c.defaultDuration)
	c.items[key] = cacheItem{
		data:      data,
		expiresAt: expiresAt,
	}

	c.logger.Debug("Response cached",
		zap.String("key", key),
		zap.Time("expires_at", expiresAt))
}

func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		c.misses++
		return nil, false
	}

	if c.now().After(item.expiresAt) {
		delete(c.items, key)
		c.misses++
		return nil, false
	}

	c.hits++
	return item.data, true
}

func (c *ResponseCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.expiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.expiresAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
		c.logger.Debug("Evicted oldest response from cache",
			zap.String("key", oldestKey))
	}
}

func (c *ResponseCache) startCleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *ResponseCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiredCount := 0

	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		c.logger.Debug("Cleaned expired cache items",
			zap.Int("count", expiredCount))
	}
}

func (c *ResponseCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
}

func (c *ResponseCache) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"items":            len(c.items),
		"hits":             c.hits,
		"misses":           c.misses,
		"max_size":         c.maxSize,
		"default_duration": c.defaultDuration.String(),
	}
}
