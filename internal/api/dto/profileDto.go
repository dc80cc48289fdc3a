package dto

import "github.com/hackthebois/recordscratch/internal/api/models"

// CreateProfileRequest onboards a new profile for the authenticated user.
type CreateProfileRequest struct {
	Handle   string  `json:"handle" binding:"required,min=1,max=20"`
	Name     string  `json:"name" binding:"required,min=1,max=50"`
	Bio      *string `json:"bio" binding:"omitempty,max=200"`
	ImageURL *string `json:"image_url"`
}

// UpdateProfileRequest replaces the mutable profile fields.
type UpdateProfileRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=50"`
	Bio      *string `json:"bio" binding:"omitempty,max=200"`
	ImageURL *string `json:"image_url"`
}

// ProfileMeta carries the derived per-user statistics shown on a profile page.
type ProfileMeta struct {
	Streak         int   `json:"streak"`
	TotalLikes     int64 `json:"total_likes"`
	TotalFollowers int64 `json:"total_followers"`
	TotalFollowing int64 `json:"total_following"`
	TotalRatings   int64 `json:"total_ratings"`
}

// ProfileResponse is a profile plus its derived stats.
type ProfileResponse struct {
	models.Profile
	Meta ProfileMeta `json:"meta"`
}

// FollowProfileItem is one entry of a followers/following listing.
type FollowProfileItem struct {
	UserID      string         `json:"user_id"`
	FollowingID string         `json:"following_id"`
	Profile     models.Profile `json:"profile"`
	IsFollowing bool           `json:"is_following"`
}

// ModerateProfileRequest targets one profile for deactivation or activation.
type ModerateProfileRequest struct {
	UserID string `json:"user_id" binding:"required"`
}
