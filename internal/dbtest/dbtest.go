// Package dbtest hands out throwaway in-memory databases for tests.
package dbtest

import (
	"testing"
	"time"

	"memeboard/internal/db"
	"memeboard/internal/models"

	"gorm.io/gorm"
)

// New returns a migrated in-memory SQLite database closed at test cleanup.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	conn, err := db.Open("sqlite::memory:", "silent")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func CreateUser(t testing.TB, conn *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func CreatePost(t testing.TB, conn *gorm.DB, creator *models.User, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:         title,
		Text:          "text of " + title,
		ImageURL:      "https://i.imgur.com/" + title + ".png",
		ImagePublicID: "del-" + title,
		CreatorID:     creator.ID,
		CreatedAt:     createdAt.UTC(),
	}
	if err := conn.Create(post).Error; err != nil {
		t.Fatalf("failed to create post %s: %v", title, err)
	}
	return post
}
