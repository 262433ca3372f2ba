package feed

import (
	"sort"
	"strconv"
	"sync"

	"memeboard/internal/models"
)

// Merge folds incoming into existing: posts are deduplicated by id (the newer
// copy wins), ordered newest first, and HasMore comes from incoming, the most
// recently fetched page. Merging the same page twice changes nothing.
func Merge(existing, incoming Page) Page {
	merged := make([]models.Post, 0, len(existing.Posts)+len(incoming.Posts))
	index := make(map[uint]int, cap(merged))

	add := func(p models.Post) {
		if i, ok := index[p.ID]; ok {
			merged[i] = p
			return
		}
		index[p.ID] = len(merged)
		merged = append(merged, p)
	}
	for _, p := range existing.Posts {
		add(p)
	}
	for _, p := range incoming.Posts {
		add(p)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return Page{Posts: merged, HasMore: incoming.HasMore}
}

// Key names a feed independently of its cursor, so every page of the
// same feed lands in the same cache entry.
func Key(limit int) string {
	return "posts:limit=" + strconv.Itoa(ClampLimit(limit))
}

// Cache accumulates the pages a reader has fetched, one merged page per feed key.
type Cache struct {
	mu    sync.Mutex
	pages map[string]Page
}

func NewCache() *Cache {
	return &Cache{pages: make(map[string]Page)}
}

// Add merges page into the entry for key and returns the merged result.
func (c *Cache) Add(key string, page Page) Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := Merge(c.pages[key], page)
	c.pages[key] = merged
	return merged
}

func (c *Cache) Get(key string) (Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	page, ok := c.pages[key]
	return page, ok
}

// Next returns the cursor for the page after everything cached under key,
// or nil when the cache is empty or the feed is exhausted.
func (c *Cache) Next(key string) *Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, ok := c.pages[key]
	if !ok || !page.HasMore || len(page.Posts) == 0 {
		return nil
	}
	return After(page.Posts[len(page.Posts)-1])
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, key)
}
