package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"memeboard/internal/dbtest"
	"memeboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// seed creates n posts, post i created i minutes before base.
func seed(t *testing.T, n int) (*gorm.DB, []*models.Post) {
	t.Helper()
	conn := dbtest.New(t)
	user := dbtest.CreateUser(t, conn, "poster")
	posts := make([]*models.Post, n)
	for i := 0; i < n; i++ {
		posts[i] = dbtest.CreatePost(t, conn, user, fmt.Sprintf("post-%02d", i), base.Add(-time.Duration(i)*time.Minute))
	}
	return conn, posts
}

func titles(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestListPostsTwoPages(t *testing.T) {
	conn, _ := seed(t, 12)
	p := NewPaginator(conn)
	ctx := context.Background()

	first, err := p.ListPosts(ctx, 10, nil)
	require.NoError(t, err)
	require.Len(t, first.Posts, 10)
	assert.True(t, first.HasMore)
	assert.Equal(t, "post-00", first.Posts[0].Title)
	assert.Equal(t, "post-09", first.Posts[9].Title)

	cursor := &Cursor{CreatedAt: first.Posts[9].CreatedAt}
	second, err := p.ListPosts(ctx, 10, cursor)
	require.NoError(t, err)
	assert.Equal(t, []string{"post-10", "post-11"}, titles(second.Posts))
	assert.False(t, second.HasMore)
}

func TestListPostsExactBoundary(t *testing.T) {
	conn, _ := seed(t, 10)
	page, err := NewPaginator(conn).ListPosts(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 10)
	assert.False(t, page.HasMore)
}

func TestListPostsClampsLimit(t *testing.T) {
	conn, _ := seed(t, 55)
	p := NewPaginator(conn)

	page, err := p.ListPosts(context.Background(), 500, nil)
	require.NoError(t, err)
	assert.Len(t, page.Posts, MaxLimit)
	assert.True(t, page.HasMore)

	page, err = p.ListPosts(context.Background(), 0, nil)
	require.NoError(t, err)
	assert.Len(t, page.Posts, DefaultLimit)
}

func TestListPostsEmpty(t *testing.T) {
	page, err := NewPaginator(dbtest.New(t)).ListPosts(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasMore)
}

func TestListPostsTieBreakWithCursorID(t *testing.T) {
	conn := dbtest.New(t)
	user := dbtest.CreateUser(t, conn, "poster")
	for i := 0; i < 4; i++ {
		dbtest.CreatePost(t, conn, user, fmt.Sprintf("same-%d", i), base)
	}
	p := NewPaginator(conn)
	ctx := context.Background()

	first, err := p.ListPosts(ctx, 2, nil)
	require.NoError(t, err)
	require.True(t, first.HasMore)

	second, err := p.ListPosts(ctx, 2, After(first.Posts[1]))
	require.NoError(t, err)
	assert.False(t, second.HasMore)

	seen := append(titles(first.Posts), titles(second.Posts)...)
	assert.ElementsMatch(t, []string{"same-0", "same-1", "same-2", "same-3"}, seen)
}

func TestParseCursor(t *testing.T) {
	c, err := ParseCursor("", "")
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = ParseCursor("2024-03-01T12:00:00.5Z", "")
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(base.Add(500*time.Millisecond)))
	assert.Zero(t, c.ID)

	c, err = ParseCursor(fmt.Sprint(base.UnixMilli()), "7")
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(base))
	assert.Equal(t, uint(7), c.ID)

	_, err = ParseCursor("yesterday", "")
	assert.Error(t, err)

	_, err = ParseCursor("2024-03-01T12:00:00Z", "x")
	assert.Error(t, err)
}
