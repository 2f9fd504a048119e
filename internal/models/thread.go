package models

import (
	"time"

	"gorm.io/gorm"
)

// Thread is a top-level submission in a community.
//
// Upvotes, Downvotes, CommentsCount and UserVote are never stored as
// columns: they are recomputed from the vote ledger and the comments
// table on every read so they can not drift out of sync with it.
type Thread struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user"`
	CommunityID uint       `gorm:"not null;index" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	// Computed at query time, not persisted
	Upvotes       int `gorm:"->" json:"upvotes"`
	Downvotes     int `gorm:"->" json:"downvotes"`
	CommentsCount int `gorm:"->" json:"comments_count"`
	// UserVote is the requesting user's own vote (+1, -1) or null for
	// anonymous callers and users who have not voted.
	UserVote  *int           `gorm:"->" json:"user_vote"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Score is the net vote value derived from the computed counters.
func (t *Thread) Score() int {
	return t.Upvotes - t.Downvotes
}
