package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a reply on a thread, optionally nested under another comment.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"not null" json:"content"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	ThreadID uint   `gorm:"not null;index" json:"thread_id"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`
	// Computed at query time, not persisted
	Upvotes       int            `gorm:"->" json:"upvotes"`
	Downvotes     int            `gorm:"->" json:"downvotes"`
	ChildrenCount int            `gorm:"->" json:"children_count"`
	UserVote      *int           `gorm:"->" json:"user_vote"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
