// Package feed serves the newest-first post feed in cursor-addressed pages
// and merges overlapping pages on the reading side.
package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"memeboard/internal/models"

	"gorm.io/gorm"
)

const (
	MaxLimit     = 50
	DefaultLimit = 10
)

// Cursor points just past the last post a reader has seen. ID is optional;
// when set it breaks ties between posts sharing a created_at.
type Cursor struct {
	CreatedAt time.Time
	ID        uint
}

// Page is one slice of the feed. HasMore reports whether an older post exists.
type Page struct {
	Posts   []models.Post `json:"posts"`
	HasMore bool          `json:"hasMore"`
}

// ParseCursor accepts an RFC 3339 timestamp or unix milliseconds. Empty means
// the first page and yields a nil cursor.
func ParseCursor(raw, rawID string) (*Cursor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var ts time.Time
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		ts = time.UnixMilli(ms)
	} else {
		ts, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor %q: %w", raw, err)
		}
	}

	cursor := &Cursor{CreatedAt: ts.UTC()}
	if rawID = strings.TrimSpace(rawID); rawID != "" {
		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor id %q: %w", rawID, err)
		}
		cursor.ID = uint(id)
	}
	return cursor, nil
}

// After returns the cursor that continues the feed after p.
func After(p models.Post) *Cursor {
	return &Cursor{CreatedAt: p.CreatedAt.UTC(), ID: p.ID}
}

// ClampLimit bounds a requested page size to [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

type Paginator struct {
	db *gorm.DB
}

func NewPaginator(conn *gorm.DB) *Paginator {
	return &Paginator{db: conn}
}

// ListPosts returns up to limit posts strictly older than cursor, newest first.
// One extra row is fetched to learn whether another page exists.
func (p *Paginator) ListPosts(ctx context.Context, limit int, cursor *Cursor) (*Page, error) {
	limit = ClampLimit(limit)

	q := p.db.WithContext(ctx).Model(&models.Post{})
	if cursor != nil {
		if cursor.ID != 0 {
			q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		} else {
			q = q.Where("created_at < ?", cursor.CreatedAt)
		}
	}

	var posts []models.Post
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit + 1).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	page := &Page{Posts: posts, HasMore: len(posts) > limit}
	if page.HasMore {
		page.Posts = posts[:limit]
	}
	return page, nil
}
