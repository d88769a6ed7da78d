package models

import "time"

// MaxContentLength is the longest message, counted in characters.
const MaxContentLength = 200

// Message is a post authored by a single user.
type Message struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;index"`
	Author    *User     `gorm:"foreignKey:UserID" json:"-"`
	Content   string    `gorm:"size:200;not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName overrides the table name used by GORM
func (Message) TableName() string {
	return "messages"
}
