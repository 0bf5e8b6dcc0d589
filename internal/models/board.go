package models

import "time"

// MaxBoardNameLength bounds board names in characters.
const MaxBoardNameLength = 30

// Board is a named container for posts, public or private, owned by one user.
type Board struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:30;not null;uniqueIndex" json:"name"`
	Public    bool      `gorm:"not null;index" json:"public"`
	PostCount int       `gorm:"not null" json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt moves only when PostCount does, never on metadata edits.
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null" json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// OwnerID implements Resource.
func (b *Board) OwnerID() uint { return b.UserID }

// Kind implements Resource.
func (b *Board) Kind() string { return "board" }

// Label implements Resource.
func (b *Board) Label() string { return b.Name }
