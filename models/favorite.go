package models

import "time"

// Favorite marks that a user has favorited a message. The pair is the
// primary key, so a user can favorite a message at most once.
type Favorite struct {
	UserID    uint64   `gorm:"primaryKey;autoIncrement:false"`
	MessageID uint64   `gorm:"primaryKey;autoIncrement:false"`
	User      *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Message   *Message `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time
}

// TableName overrides the table name used by GORM
func (Favorite) TableName() string {
	return "favorites"
}
