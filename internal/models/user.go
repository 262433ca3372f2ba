package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // Hash
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VisibleTo returns a copy of the user as the viewer may see it.
// Only the owner of the account can read the email.
func (u User) VisibleTo(viewerID uint) User {
	if viewerID == 0 || viewerID != u.ID {
		u.Email = ""
	}
	return u
}
