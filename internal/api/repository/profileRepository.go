package repository

import (
	"github.com/hackthebois/recordscratch/internal/api/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(profile *models.Profile) error
	Update(profile *models.Profile) error
	GetByHandle(handle string) (*models.Profile, error)
	GetByUserID(userID string) (*models.Profile, error)
	GetByUserIDs(userIDs []string) (map[string]models.Profile, error)
	SetDeactivated(userID string, deactivated bool) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// GetByHandle retrieves a profile by its unique handle.
func (r *profileRepository) GetByHandle(handle string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("handle = ?", handle).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUserIDs retrieves a batch of profiles keyed by user id.
func (r *profileRepository) GetByUserIDs(userIDs []string) (map[string]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Where("user_id IN ?", userIDs).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}
	return byID, nil
}

// SetDeactivated flips the moderation flag, excluding or restoring the
// profile in every read-side aggregation.
func (r *profileRepository) SetDeactivated(userID string, deactivated bool) error {
	result := r.db.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("deactivated", deactivated)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
