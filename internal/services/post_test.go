package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"memeboard/internal/apperror"
	"memeboard/internal/dbtest"
	"memeboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssets struct {
	deleted []string
	failDel bool
}

func (f *fakeAssets) Upload(ctx context.Context, file io.Reader, filename string) (*ImageUploadResult, error) {
	return &ImageUploadResult{URL: "https://i.imgur.com/" + filename, PublicID: "del-" + filename}, nil
}

func (f *fakeAssets) Delete(ctx context.Context, publicID string) error {
	if f.failDel {
		return errors.New("imgur down")
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

func validPost(title string) CreatePostInput {
	return CreatePostInput{Title: title, Text: "so true", ImageURL: "https://i.imgur.com/a.png", ImagePublicID: "del-a"}
}

func TestCreatePost(t *testing.T) {
	conn := dbtest.New(t)
	alice := dbtest.CreateUser(t, conn, "alice")
	svc := NewPostService(conn, &fakeAssets{})
	ctx := context.Background()

	post, errs, err := svc.Create(ctx, alice.ID, validPost("  works on my machine "))
	require.NoError(t, err)
	require.Nil(t, errs)
	assert.Equal(t, "works on my machine", post.Title)
	assert.Equal(t, 0, post.Points)
	assert.Equal(t, alice.ID, post.CreatorID)
	assert.False(t, post.CreatedAt.IsZero())

	_, errs, err = svc.Create(ctx, alice.ID, validPost("works on my machine"))
	require.NoError(t, err)
	assert.Equal(t, []apperror.FieldError{{Field: "title", Message: "title already exists"}}, errs)

	_, errs, err = svc.Create(ctx, alice.ID, CreatePostInput{Title: " ", Text: "x", ImageURL: "u", ImagePublicID: "p"})
	require.NoError(t, err)
	assert.Equal(t, "title", errs[0].Field)

	_, errs, err = svc.Create(ctx, alice.ID, CreatePostInput{Title: "no image", Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "image", errs[0].Field)

	_, _, err = svc.Create(ctx, 0, validPost("anon"))
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestGetPostNotFound(t *testing.T) {
	svc := NewPostService(dbtest.New(t), nil)
	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdatePost(t *testing.T) {
	conn := dbtest.New(t)
	alice := dbtest.CreateUser(t, conn, "alice")
	bob := dbtest.CreateUser(t, conn, "bob")
	post := dbtest.CreatePost(t, conn, alice, "original", time.Now())
	dbtest.CreatePost(t, conn, alice, "taken", time.Now())
	svc := NewPostService(conn, nil)
	ctx := context.Background()

	title := "renamed"
	updated, err := svc.Update(ctx, alice.ID, post.ID, UpdatePostInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, post.Text, updated.Text)

	taken := "taken"
	_, err = svc.Update(ctx, alice.ID, post.ID, UpdatePostInput{Title: &taken})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Update(ctx, bob.ID, post.ID, UpdatePostInput{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Update(ctx, alice.ID, 999, UpdatePostInput{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdatePostKeepsPoints(t *testing.T) {
	conn := dbtest.New(t)
	alice := dbtest.CreateUser(t, conn, "alice")
	post := dbtest.CreatePost(t, conn, alice, "original", time.Now())
	ctx := context.Background()
	require.NoError(t, NewVoteService(conn).ApplyVote(ctx, alice.ID, post.ID, models.Upvote))

	text := "edited"
	updated, err := NewPostService(conn, nil).Update(ctx, alice.ID, post.ID, UpdatePostInput{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Equal(t, 1, updated.Points)
}

func TestDeletePost(t *testing.T) {
	conn := dbtest.New(t)
	alice := dbtest.CreateUser(t, conn, "alice")
	bob := dbtest.CreateUser(t, conn, "bob")
	post := dbtest.CreatePost(t, conn, alice, "doomed", time.Now())
	assets := &fakeAssets{}
	svc := NewPostService(conn, assets)
	ctx := context.Background()
	require.NoError(t, NewVoteService(conn).ApplyVote(ctx, bob.ID, post.ID, models.Upvote))

	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, post.ID), apperror.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, 0, post.ID), apperror.ErrUnauthorized)

	require.NoError(t, svc.Delete(ctx, alice.ID, post.ID))
	assert.Equal(t, []string{"del-doomed"}, assets.deleted)

	_, err := svc.Get(ctx, post.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var votes int64
	require.NoError(t, conn.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&votes).Error)
	assert.Zero(t, votes)
}

func TestDeletePostAssetFailureIsLogged(t *testing.T) {
	conn := dbtest.New(t)
	alice := dbtest.CreateUser(t, conn, "alice")
	post := dbtest.CreatePost(t, conn, alice, "doomed", time.Now())
	svc := NewPostService(conn, &fakeAssets{failDel: true})

	require.NoError(t, svc.Delete(context.Background(), alice.ID, post.ID))
	_, err := svc.Get(context.Background(), post.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
