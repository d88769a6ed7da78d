package models

import "time"

// User represents a registered account. Email and Username never change
// after creation.
type User struct {
	ID           uint64  `gorm:"primaryKey"`
	Email        string  `gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	Username     string  `gorm:"size:50;not null;uniqueIndex:idx_users_username"`
	DisplayName  *string `gorm:"size:100"`
	Bio          *string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "users"
}

// Name is the display name when set, the username otherwise.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}
