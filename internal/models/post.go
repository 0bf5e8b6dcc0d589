package models

import "time"

// MaxPostTitleLength bounds post titles in characters.
const MaxPostTitleLength = 30

// Post represents a titled text item belonging to exactly one board and one author.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:30;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_posts_board_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	BoardID   uint      `gorm:"not null;index:idx_posts_board_created,priority:1" json:"board_id"`
	Board     *Board    `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"-"`
}

// OwnerID implements Resource.
func (p *Post) OwnerID() uint { return p.UserID }

// Kind implements Resource.
func (p *Post) Kind() string { return "post" }

// Label implements Resource.
func (p *Post) Label() string { return p.Title }
