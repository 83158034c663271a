package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is a to-do item. OwnerID is assigned once at creation and every
// query against the table is scoped by it.
type Task struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Completed bool           `gorm:"not null;default:false" json:"completed"`
	DueDate   *time.Time     `json:"due_date"`
	OwnerID   uint64         `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
