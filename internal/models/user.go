// Package models contains data structures for the application's domain models.
package models

import "time"

// DefaultFullName is used when a user signs up without a display name.
const DefaultFullName = "Unknown"

// User represents a registered account. Deleting a user cascades to their boards and posts.
type User struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Email    string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName string    `gorm:"size:30;not null" json:"full_name"`
	Password string    `gorm:"not null" json:"-"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"join_date"`
}
