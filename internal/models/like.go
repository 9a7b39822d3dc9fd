package models

import (
	"time"
)

// Like marks that a user likes a post. At most one row may exist per
// (user, post) pair; the unique index is what the toggle's idempotent
// insert relies on.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
