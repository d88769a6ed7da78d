package dto

import "time"

// MessageDTO is a message joined with its author and with whether the
// viewing user has favorited it.
type MessageDTO struct {
	ID                uint64
	UserID            uint64
	Content           string
	CreatedAt         time.Time
	Username          string
	AuthorDisplayName *string
	Favorited         bool
}

// AuthorName is the author's display name when set, the username otherwise.
func (m MessageDTO) AuthorName() string {
	if m.AuthorDisplayName != nil && *m.AuthorDisplayName != "" {
		return *m.AuthorDisplayName
	}
	return m.Username
}
