package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"memeboard/internal/apperror"
	"memeboard/internal/feed"
	"memeboard/internal/loader"
	"memeboard/internal/middleware"
	"memeboard/internal/models"
	"memeboard/internal/services"
	"memeboard/internal/utils"

	"github.com/gin-gonic/gin"
)

const snippetLength = 50

type PostHandler struct {
	posts *services.PostService
	feed  *feed.Paginator
}

func NewPostHandler(posts *services.PostService, paginator *feed.Paginator) *PostHandler {
	return &PostHandler{posts: posts, feed: paginator}
}

// List GET /api/posts?limit=&cursor=&cursorId=
func (h *PostHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(feed.DefaultLimit)))
	if err != nil {
		badRequest(c, err)
		return
	}
	cursor, err := feed.ParseCursor(c.Query("cursor"), c.Query("cursorId"))
	if err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.feed.ListPosts(c.Request.Context(), limit, cursor)
	if err != nil {
		RenderError(c, err)
		return
	}
	if err := decorate(c, page.Posts); err != nil {
		RenderError(c, err)
		return
	}
	for i := range page.Posts {
		page.Posts[i].TextSnippet = utils.Snippet(page.Posts[i].Text, snippetLength)
	}
	c.JSON(http.StatusOK, page)
}

// Get GET /api/posts/:id, null when missing.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), utils.StringToUint(c.Param("id")))
	if errors.Is(err, apperror.ErrNotFound) {
		null(c)
		return
	}
	if err != nil {
		RenderError(c, err)
		return
	}

	posts := []models.Post{*post}
	if err := decorate(c, posts); err != nil {
		RenderError(c, err)
		return
	}
	posts[0].TextHTML = utils.RenderMarkdown(posts[0].Text)
	c.JSON(http.StatusOK, posts[0])
}

func (h *PostHandler) Create(c *gin.Context) {
	var in services.CreatePostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	post, fields, err := h.posts.Create(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		RenderError(c, err)
		return
	}
	if fields != nil {
		c.JSON(http.StatusOK, gin.H{"errors": fields})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	var in services.UpdatePostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.posts.Update(c.Request.Context(), middleware.CurrentUserID(c), utils.StringToUint(c.Param("id")), in)
	if errors.Is(err, apperror.ErrNotFound) {
		null(c)
		return
	}
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	err := h.posts.Delete(c.Request.Context(), middleware.CurrentUserID(c), utils.StringToUint(c.Param("id")))
	if errors.Is(err, apperror.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// decorate fills creator and voteStatus for every post with one query per relation.
func decorate(c *gin.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ls := middleware.GetLoaders(c)
	if ls == nil {
		return errors.New("request loaders not installed")
	}
	viewer := middleware.CurrentUserID(c)

	for _, p := range posts {
		ls.Users.Queue(p.CreatorID)
		if viewer != 0 {
			ls.Votes.Queue(loader.VoteKey{UserID: viewer, PostID: p.ID})
		}
	}
	ctx := c.Request.Context()
	if err := ls.Users.Dispatch(ctx); err != nil {
		return err
	}
	if err := ls.Votes.Dispatch(ctx); err != nil {
		return err
	}

	for i := range posts {
		if u, ok := ls.Users.Get(posts[i].CreatorID); ok {
			creator := u.VisibleTo(viewer)
			posts[i].Creator = &creator
		}
		if viewer == 0 {
			continue
		}
		if v, ok := ls.Votes.Get(loader.VoteKey{UserID: viewer, PostID: posts[i].ID}); ok {
			value := v
			posts[i].VoteStatus = &value
		}
	}
	return nil
}
