package models

import (
	"time"
)

const (
	Upvote   = 1
	Downvote = -1
)

// Vote is the ledger entry of one user's current vote on one post.
// A missing row means "no vote"; a zero value is never stored.
type Vote struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"postId"`
	Post      *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidDirection reports whether v is a storable vote value.
func ValidDirection(v int) bool {
	return v == Upvote || v == Downvote
}
