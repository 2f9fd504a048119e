package models

import (
	"time"

	"gorm.io/gorm"
)

// Community is a named topic space that threads belong to.
type Community struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"unique;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	CreatedBy   uint   `gorm:"not null;index" json:"created_by"`
	// ThreadsCount is not persisted; computed at query time
	ThreadsCount int            `gorm:"->" json:"threads_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
