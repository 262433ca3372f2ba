package utils

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装缓存数据和过期时间
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// GlobalCache is a size-bounded LRU whose entries also expire by TTL.
// mu makes read-check-remove sequences atomic across all methods.
type GlobalCache struct {
	mu       sync.Mutex
	lruCache *lru.Cache[string, CacheItem]
	now      func() time.Time
}

var (
	cacheInstance *GlobalCache
	cacheOnce     sync.Once
)

// GetCache 获取单例缓存实例
func GetCache() *GlobalCache {
	cacheOnce.Do(func() {
		cacheInstance = NewCache(500)
	})
	return cacheInstance
}

func NewCache(size int) *GlobalCache {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &GlobalCache{lruCache: l, now: time.Now}
}

// Set 设置缓存，TTL 为过期时间
func (c *GlobalCache) Set(key string, data interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: c.now().Add(ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 nil
func (c *GlobalCache) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

// Take returns the value and removes it, so one-time tokens cannot be replayed.
func (c *GlobalCache) Take(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := c.get(key)
	if data != nil {
		c.lruCache.Remove(key)
	}
	return data
}

// Delete 删除指定缓存
func (c *GlobalCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lruCache.Remove(key)
}

// get expects c.mu to be held.
func (c *GlobalCache) get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}
	if c.now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}
	return val.Data
}
