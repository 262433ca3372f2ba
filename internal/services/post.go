package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"memeboard/internal/apperror"
	"memeboard/internal/models"

	"gorm.io/gorm"
)

type CreatePostInput struct {
	Title         string `json:"title"`
	Text          string `json:"text"`
	ImageURL      string `json:"imageUrl"`
	ImagePublicID string `json:"imagePublicId"`
}

type UpdatePostInput struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

// PostService is plain CRUD over posts. Points are owned by VoteService.
type PostService struct {
	db     *gorm.DB
	assets AssetStore
}

func NewPostService(conn *gorm.DB, assets AssetStore) *PostService {
	return &PostService{db: conn, assets: assets}
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("post", id)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostService) Create(ctx context.Context, creatorID uint, in CreatePostInput) (*models.Post, []apperror.FieldError, error) {
	if creatorID == 0 {
		return nil, nil, apperror.Unauthorized()
	}

	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return nil, fieldErr("title", "title cannot be empty"), nil
	case strings.TrimSpace(in.Text) == "":
		return nil, fieldErr("text", "text cannot be empty"), nil
	case in.ImageURL == "" || in.ImagePublicID == "":
		return nil, fieldErr("image", "an image is required"), nil
	}

	taken, err := s.titleTaken(ctx, in.Title, 0)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, fieldErr("title", "title already exists"), nil
	}

	post := models.Post{
		Title:         in.Title,
		Text:          in.Text,
		ImageURL:      in.ImageURL,
		ImagePublicID: in.ImagePublicID,
		CreatorID:     creatorID,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldErr("title", "title already exists"), nil
		}
		return nil, nil, fmt.Errorf("creating post: %w", err)
	}
	return &post, nil, nil
}

// Update changes title and/or text. Only the creator may edit.
func (s *PostService) Update(ctx context.Context, userID, id uint, in UpdatePostInput) (*models.Post, error) {
	post, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "title cannot be empty")
		}
		taken, err := s.titleTaken(ctx, title, post.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.ValidationFailed("title", "title already exists")
		}
		updates["title"] = title
	}
	if in.Text != nil {
		updates["text"] = *in.Text
	}
	if len(updates) == 0 {
		return post, nil
	}

	// Only the edited columns are written; points belong to VoteService.
	if err := s.db.WithContext(ctx).Model(post).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ValidationFailed("title", "title already exists")
		}
		return nil, fmt.Errorf("updating post: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the post with its votes, then the hosted image.
func (s *PostService) Delete(ctx context.Context, userID, id uint) error {
	post, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
	if err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}

	if s.assets != nil {
		if err := s.assets.Delete(ctx, post.ImagePublicID); err != nil {
			log.Printf("⚠️ failed to delete image %s of post %d: %v", post.ImagePublicID, post.ID, err)
		}
	}
	return nil
}

func (s *PostService) owned(ctx context.Context, userID, id uint) (*models.Post, error) {
	if userID == 0 {
		return nil, apperror.Unauthorized()
	}
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.CreatorID != userID {
		return nil, apperror.Forbidden("not the creator of this post")
	}
	return post, nil
}

func (s *PostService) titleTaken(ctx context.Context, title string, exceptID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("title = ? AND id <> ?", title, exceptID).
		Count(&count).Error
	return count > 0, err
}
