package repositories

import (
	"context"

	"microblog/dto"
	"microblog/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// UpdateProfile sets display name and bio; an empty string clears the field.
	UpdateProfile(ctx context.Context, id uint64, displayName, bio string) error
	ListByUsername(ctx context.Context) ([]models.User, error)
}

// MessageRepository listings are newest first. viewerID selects whose
// favorites fill MessageDTO.Favorited; 0 means nobody's.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByID(ctx context.Context, id uint64) (*models.Message, error)
	Latest(ctx context.Context, viewerID uint64, limit int) ([]dto.MessageDTO, error)
	ByAuthor(ctx context.Context, authorID, viewerID uint64) ([]dto.MessageDTO, error)
	FavoritedBy(ctx context.Context, userID uint64) ([]dto.MessageDTO, error)
}

type FavoriteRepository interface {
	// Add reports whether a new favorite was stored.
	Add(ctx context.Context, userID, messageID uint64) (bool, error)
	// Remove reports whether an existing favorite was deleted.
	Remove(ctx context.Context, userID, messageID uint64) (bool, error)
}
