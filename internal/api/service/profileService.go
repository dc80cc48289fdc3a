package service

import (
	"errors"
	"time"

	"github.com/hackthebois/recordscratch/internal/api/analytics"
	"github.com/hackthebois/recordscratch/internal/api/dto"
	"github.com/hackthebois/recordscratch/internal/api/models"
	"github.com/hackthebois/recordscratch/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this profile")
	ErrNotFollowing     = errors.New("not following this profile")
	ErrHandleInUse      = errors.New("handle already in use")
)

type ProfileService interface {
	GetByHandle(handle string) (*dto.ProfileResponse, error)
	Create(userID string, input dto.CreateProfileRequest) (*models.Profile, error)
	Update(userID string, input dto.UpdateProfileRequest) (*models.Profile, error)
	Follow(userID, followingID string) error
	Unfollow(userID, followingID string) error
	IsFollowing(userID, followingID string) (bool, error)
	GetFollowers(profileID, viewerID string) ([]dto.FollowProfileItem, error)
	GetFollowing(profileID, viewerID string) ([]dto.FollowProfileItem, error)
	Deactivate(userID string) error
	Activate(userID string) error
}

type profileService struct {
	profileRepo repository.ProfileRepository
	ratingRepo  repository.RatingRepository
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository
	events      *analytics.Publisher
	now         func() time.Time
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	ratingRepo repository.RatingRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	events *analytics.Publisher,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		ratingRepo:  ratingRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
		events:      events,
		now:         time.Now,
	}
}

// GetByHandle loads a profile with its derived stats: rating streak, likes
// received, follower/following counts and total ratings.
func (s *profileService) GetByHandle(handle string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.GetByHandle(handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	ratingTimes, err := s.ratingRepo.GetRatingTimes(profile.UserID)
	if err != nil {
		return nil, err
	}
	totalLikes, err := s.likeRepo.CountReceived(profile.UserID)
	if err != nil {
		return nil, err
	}
	totalFollowers, err := s.followRepo.CountFollowers(profile.UserID)
	if err != nil {
		return nil, err
	}
	totalFollowing, err := s.followRepo.CountFollowing(profile.UserID)
	if err != nil {
		return nil, err
	}
	totalRatings, err := s.ratingRepo.CountByUser(profile.UserID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		Profile: *profile,
		Meta: dto.ProfileMeta{
			Streak:         Streak(s.now(), ratingTimes),
			TotalLikes:     totalLikes,
			TotalFollowers: totalFollowers,
			TotalFollowing: totalFollowing,
			TotalRatings:   totalRatings,
		},
	}, nil
}

func (s *profileService) Create(userID string, input dto.CreateProfileRequest) (*models.Profile, error) {
	if _, err := s.profileRepo.GetByHandle(input.Handle); err == nil {
		return nil, ErrHandleInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile := &models.Profile{
		UserID:   userID,
		Handle:   input.Handle,
		Name:     input.Name,
		Bio:      input.Bio,
		ImageURL: input.ImageURL,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		return nil, err
	}

	s.events.Capture("profile_created", userID, map[string]any{"handle": input.Handle})
	return profile, nil
}

func (s *profileService) Update(userID string, input dto.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	profile.Name = input.Name
	profile.Bio = input.Bio
	profile.ImageURL = input.ImageURL
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Follow creates a follow edge after rejecting self-follows and duplicates.
func (s *profileService) Follow(userID, followingID string) error {
	if userID == followingID {
		return ErrSelfFollow
	}
	if _, err := s.profileRepo.GetByUserID(followingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	exists, err := s.followRepo.Exists(userID, followingID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}
	return s.followRepo.Create(&models.Follow{UserID: userID, FollowingID: followingID})
}

// Unfollow removes a follow edge; removing a non-existent edge is a
// precondition failure, not a silent no-op.
func (s *profileService) Unfollow(userID, followingID string) error {
	err := s.followRepo.Delete(userID, followingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFollowing
	}
	return err
}

func (s *profileService) IsFollowing(userID, followingID string) (bool, error) {
	if userID == followingID {
		return false, nil
	}
	return s.followRepo.Exists(userID, followingID)
}

// GetFollowers lists the non-deactivated profiles following profileID,
// each flagged with whether the viewer follows them back.
func (s *profileService) GetFollowers(profileID, viewerID string) ([]dto.FollowProfileItem, error) {
	if _, err := s.profileRepo.GetByUserID(profileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	follows, err := s.followRepo.ListFollowers(profileID)
	if err != nil {
		return nil, err
	}
	items := []dto.FollowProfileItem{}
	for _, f := range follows {
		if f.Follower.Deactivated {
			continue
		}
		item, err := s.followItem(f, f.Follower, viewerID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetFollowing lists the non-deactivated profiles profileID follows.
func (s *profileService) GetFollowing(profileID, viewerID string) ([]dto.FollowProfileItem, error) {
	if _, err := s.profileRepo.GetByUserID(profileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	follows, err := s.followRepo.ListFollowing(profileID)
	if err != nil {
		return nil, err
	}
	items := []dto.FollowProfileItem{}
	for _, f := range follows {
		if f.Following.Deactivated {
			continue
		}
		item, err := s.followItem(f, f.Following, viewerID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *profileService) followItem(f models.Follow, profile models.Profile, viewerID string) (dto.FollowProfileItem, error) {
	item := dto.FollowProfileItem{
		UserID:      f.UserID,
		FollowingID: f.FollowingID,
		Profile:     profile,
	}
	if viewerID != "" && viewerID != profile.UserID {
		isFollowing, err := s.followRepo.Exists(viewerID, profile.UserID)
		if err != nil {
			return item, err
		}
		item.IsFollowing = isFollowing
	}
	return item, nil
}

// Deactivate soft-deletes a profile, excluding it from every aggregation.
func (s *profileService) Deactivate(userID string) error {
	err := s.profileRepo.SetDeactivated(userID, true)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProfileNotFound
	}
	return err
}

// Activate restores a deactivated profile.
func (s *profileService) Activate(userID string) error {
	err := s.profileRepo.SetDeactivated(userID, false)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProfileNotFound
	}
	return err
}
