package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", 42, time.Minute)
	assert.Equal(t, 42, c.Get("k"))

	now = now.Add(2 * time.Minute)
	assert.Nil(t, c.Get("k"))
}

func TestCacheTake(t *testing.T) {
	c := NewCache(10)
	c.Set("token", uint(7), time.Hour)

	assert.Equal(t, uint(7), c.Take("token"))
	assert.Nil(t, c.Take("token"))
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2)
	c.Set("a", 1, time.Hour)
	c.Set("b", 2, time.Hour)
	c.Set("c", 3, time.Hour)

	assert.Nil(t, c.Get("a"))
	assert.Equal(t, 3, c.Get("c"))
}

func TestGetCacheSingleton(t *testing.T) {
	assert.Same(t, GetCache(), GetCache())
}

func TestCacheTakeIsSingleUseUnderContention(t *testing.T) {
	c := NewCache(10)
	c.Set("token", uint(7), time.Hour)

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Take("token") != nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
			c.Get("token")
			c.Set("other", i, time.Hour)
			c.Delete("other")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Nil(t, c.Get("token"))
}
