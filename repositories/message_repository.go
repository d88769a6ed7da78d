package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"microblog/dto"
	"microblog/models"
)

const messageColumns = "messages.id, messages.user_id, messages.content, messages.created_at, " +
	"users.username, users.display_name AS author_display_name"

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error; err != nil {
		return fmt.Errorf("create message for user %d: %w", message.UserID, err)
	}
	return nil
}

func (r *messageRepository) FindByID(ctx context.Context, id uint64) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).First(&message, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find message %d: %w", id, err)
	}
	return &message, nil
}

func (r *messageRepository) Latest(ctx context.Context, viewerID uint64, limit int) ([]dto.MessageDTO, error) {
	var messages []dto.MessageDTO
	err := r.withViewer(ctx, viewerID).
		Limit(limit).
		Scan(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("latest %d messages: %w", limit, err)
	}
	return messages, nil
}

func (r *messageRepository) ByAuthor(ctx context.Context, authorID, viewerID uint64) ([]dto.MessageDTO, error) {
	var messages []dto.MessageDTO
	err := r.withViewer(ctx, viewerID).
		Where("messages.user_id = ?", authorID).
		Scan(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("messages by user %d: %w", authorID, err)
	}
	return messages, nil
}

func (r *messageRepository) FavoritedBy(ctx context.Context, userID uint64) ([]dto.MessageDTO, error) {
	var messages []dto.MessageDTO
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select(messageColumns+", TRUE AS favorited").
		Joins("JOIN users ON users.id = messages.user_id").
		Joins("JOIN favorites ON favorites.message_id = messages.id AND favorites.user_id = ?", userID).
		Order("messages.created_at DESC, messages.id DESC").
		Scan(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("favorites of user %d: %w", userID, err)
	}
	return messages, nil
}

// withViewer is the base listing query: messages joined with their author
// and the viewer's favorite, newest first.
func (r *messageRepository) withViewer(ctx context.Context, viewerID uint64) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select(messageColumns+", favorites.user_id IS NOT NULL AS favorited").
		Joins("JOIN users ON users.id = messages.user_id").
		Joins("LEFT JOIN favorites ON favorites.message_id = messages.id AND favorites.user_id = ?", viewerID).
		Order("messages.created_at DESC, messages.id DESC")
}
