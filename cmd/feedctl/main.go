// feedctl reads the post feed page by page and keeps the merged result in a
// feed.Cache, the same way a browsing client does.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"memeboard/internal/feed"
)

func main() {
	var server string
	var limit int
	var pages int
	flag.StringVar(&server, "server", "http://localhost:4000", "memeboard server base URL")
	flag.IntVar(&limit, "limit", feed.DefaultLimit, "posts per page")
	flag.IntVar(&pages, "pages", 3, "maximum number of pages to fetch")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := &http.Client{Timeout: 15 * time.Second}
	cache := feed.NewCache()

	merged, err := readFeed(ctx, client, cache, server, limit, pages)
	if err != nil {
		log.Fatalf("read feed failed: %v", err)
	}

	for _, p := range merged.Posts {
		fmt.Fprintf(os.Stdout, "%6d  %5d  %s  %s\n", p.ID, p.Points, p.CreatedAt.Format(time.RFC3339), p.Title)
	}
	log.Printf("%d posts, hasMore=%t", len(merged.Posts), merged.HasMore)
}

// readFeed fetches up to pages pages, merging each one into cache.
func readFeed(ctx context.Context, client *http.Client, cache *feed.Cache, server string, limit, pages int) (feed.Page, error) {
	key := feed.Key(limit)
	cache.Invalidate(key)

	var cursor *feed.Cursor
	for i := 0; i < pages; i++ {
		page, err := fetchPage(ctx, client, server, limit, cursor)
		if err != nil {
			return feed.Page{}, err
		}
		cache.Add(key, *page)

		cursor = cache.Next(key)
		if cursor == nil {
			break
		}
	}

	merged, _ := cache.Get(key)
	return merged, nil
}

func fetchPage(ctx context.Context, client *http.Client, server string, limit int, cursor *feed.Cursor) (*feed.Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if cursor != nil {
		q.Set("cursor", cursor.CreatedAt.Format(time.RFC3339Nano))
		if cursor.ID != 0 {
			q.Set("cursorId", strconv.FormatUint(uint64(cursor.ID), 10))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server+"/api/posts?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /api/posts: status %d", resp.StatusCode)
	}

	var page feed.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &page, nil
}
