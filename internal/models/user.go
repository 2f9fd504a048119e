// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User mirrors an identity established by the external auth provider.
// Quorum never issues credentials itself; rows here exist so votes,
// threads and comments have a stable local owner to reference.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`
	// Karma is not persisted; computed from the vote ledger at query time
	Karma     int            `gorm:"->" json:"karma"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
