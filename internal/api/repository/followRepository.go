package repository

import (
	"github.com/hackthebois/recordscratch/internal/api/models"

	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(follow *models.Follow) error
	Delete(userID, followingID string) error
	Exists(userID, followingID string) (bool, error)
	GetFollowingIDs(userID string) ([]string, error)
	CountFollowers(userID string) (int64, error)
	CountFollowing(userID string) (int64, error)
	ListFollowers(userID string) ([]models.Follow, error)
	ListFollowing(userID string) ([]models.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(follow *models.Follow) error {
	return r.db.Create(follow).Error
}

func (r *followRepository) Delete(userID, followingID string) error {
	result := r.db.
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *followRepository) Exists(userID, followingID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowingIDs resolves the user's following set for feed and
// distribution filtering.
func (r *followRepository) GetFollowingIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountFollowers counts non-deactivated profiles following the user.
func (r *followRepository) CountFollowers(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Joins("INNER JOIN profiles ON profiles.user_id = follows.user_id AND profiles.deactivated = false").
		Where("follows.following_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountFollowing counts non-deactivated profiles the user follows.
func (r *followRepository) CountFollowing(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Joins("INNER JOIN profiles ON profiles.user_id = follows.following_id AND profiles.deactivated = false").
		Where("follows.user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// ListFollowers returns the follow edges pointing at the user with the
// follower profile preloaded.
func (r *followRepository) ListFollowers(userID string) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.
		Where("following_id = ?", userID).
		Preload("Follower").
		Order("created_at DESC").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}

// ListFollowing returns the follow edges originating from the user with the
// followed profile preloaded.
func (r *followRepository) ListFollowing(userID string) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Following").
		Order("created_at DESC").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}
