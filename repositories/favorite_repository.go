package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"microblog/models"
)

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, messageID uint64) (bool, error) {
	favorite := models.Favorite{UserID: userID, MessageID: messageID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&favorite)
	if result.Error != nil {
		return false, fmt.Errorf("favorite message %d for user %d: %w", messageID, userID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, messageID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, fmt.Errorf("unfavorite message %d for user %d: %w", messageID, userID, result.Error)
	}
	return result.RowsAffected > 0, nil
}
