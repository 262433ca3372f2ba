package models

import (
	"time"
)

type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"uniqueIndex;not null" json:"title"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	ImageURL      string    `gorm:"not null" json:"imageUrl"`
	ImagePublicID string    `gorm:"not null" json:"imagePublicId"`
	Points        int       `gorm:"not null;default:0" json:"points"` // Σ votes.value
	CreatorID     uint      `gorm:"not null;index" json:"creatorId"`
	Creator       *User     `gorm:"foreignKey:CreatorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// 非数据库字段，按请求填充
	VoteStatus  *int   `gorm:"-" json:"voteStatus"`
	TextSnippet string `gorm:"-" json:"textSnippet,omitempty"`
	TextHTML    string `gorm:"-" json:"textHtml,omitempty"`
}
