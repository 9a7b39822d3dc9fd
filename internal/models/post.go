package models

import (
	"time"
)

// Post represents a user-authored post. The author and creation time are
// immutable after creation; ChangedAt advances on every successful edit and
// equals CreatedAt until the first one.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:100;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	Tags     []Tag  `gorm:"many2many:post_tags" json:"tags"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the requesting user liked this post (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	CreatedAt time.Time `json:"created_at"`
	ChangedAt time.Time `json:"changed_at"`
}

// OwnerID returns the author's user ID.
func (p *Post) OwnerID() uint { return p.UserID }

// Kind returns the resource kind used in authorization denials.
func (p *Post) Kind() string { return "post" }

// PostDetail is the retrieve-view representation of a post: comments and
// liker usernames embedded, and changed_at suppressed while the post has
// never been edited.
type PostDetail struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	ImageURL      string     `json:"image_url,omitempty"`
	User          User       `json:"user"`
	Tags          []Tag      `json:"tags"`
	Comments      []*Comment `json:"comments"`
	Likes         []string   `json:"likes"`
	LikesCount    int        `json:"likes_count"`
	CommentsCount int        `json:"comments_count"`
	Liked         bool       `json:"liked"`
	CreatedAt     time.Time  `json:"created_at"`
	ChangedAt     *time.Time `json:"changed_at,omitempty"`
}

// NewPostDetail builds the detail representation from a post with computed
// counts, its comments, and the usernames of its likers.
func NewPostDetail(post *Post, comments []*Comment, likers []string) *PostDetail {
	detail := &PostDetail{
		ID:            post.ID,
		Title:         post.Title,
		Content:       post.Content,
		ImageURL:      post.ImageURL,
		User:          post.User,
		Tags:          post.Tags,
		Comments:      comments,
		Likes:         likers,
		LikesCount:    post.LikesCount,
		CommentsCount: post.CommentsCount,
		Liked:         post.Liked,
		CreatedAt:     post.CreatedAt,
	}
	if detail.Tags == nil {
		detail.Tags = []Tag{}
	}
	if detail.Comments == nil {
		detail.Comments = []*Comment{}
	}
	if detail.Likes == nil {
		detail.Likes = []string{}
	}
	if !post.ChangedAt.Equal(post.CreatedAt) {
		changed := post.ChangedAt
		detail.ChangedAt = &changed
	}
	return detail
}
