package models

import "time"

// Session binds an opaque identifier to a user until ExpiresAt.
type Session struct {
	ID        string    `gorm:"type:varchar(64);primarykey"`
	UserID    uint64    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
