// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account known to the platform. Registration, login and
// token issuance live in a separate identity service; this application only
// references users by ID and reads their profile fields.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	IsStaff   bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
