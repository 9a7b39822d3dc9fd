package models

import (
	"time"
)

// Comment is a user remark attached to a single post. Comments are created
// and deleted but never edited.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerID returns the comment author's user ID.
func (c *Comment) OwnerID() uint { return c.UserID }

// Kind returns the resource kind used in authorization denials.
func (c *Comment) Kind() string { return "comment" }
