package models

// Tag is a label attached to posts. Names are unique; posts reference tags
// through the post_tags join table.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:255;not null" json:"name"`
}
