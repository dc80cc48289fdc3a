package repository

import (
	"github.com/hackthebois/recordscratch/internal/api/models"

	"gorm.io/gorm"
)

type LikeRepository interface {
	CountReceived(authorID string) (int64, error)
	CountForRating(authorID, resourceID string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// CountReceived counts likes received across all of the author's ratings.
func (r *likeRepository) CountReceived(authorID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// CountForRating counts likes on one rating, identified by its author and
// resource.
func (r *likeRepository) CountForRating(authorID, resourceID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("author_id = ? AND resource_id = ?", authorID, resourceID).
		Count(&count).Error
	return count, err
}
