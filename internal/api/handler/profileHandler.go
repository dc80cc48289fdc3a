package handler

import (
	"errors"
	"net/http"

	"github.com/hackthebois/recordscratch/internal/api/dto"
	"github.com/hackthebois/recordscratch/internal/api/middleware"
	"github.com/hackthebois/recordscratch/internal/api/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
	ratingService  service.RatingService
}

func NewProfileHandler(profileService service.ProfileService, ratingService service.RatingService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		ratingService:  ratingService,
	}
}

// RegisterRoutes registers profile-related routes
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup, jwtSecret string) {
	profiles := router.Group("/profiles")
	{
		// Public reads
		profiles.GET("/:handle", h.Get)
		profiles.GET("/distribution/:userId", h.GetDistribution)
		profiles.GET("/followers/:userId", middleware.OptionalAuth(jwtSecret), h.GetFollowers)
		profiles.GET("/following/:userId", middleware.OptionalAuth(jwtSecret), h.GetFollowing)

		// Authenticated routes
		authed := profiles.Group("", middleware.RequireAuth(jwtSecret))
		authed.POST("", h.Create)
		authed.PUT("", h.Update)
		authed.GET("/is-following/:userId", h.IsFollowing)
		authed.POST("/follow/:userId", h.Follow)
		authed.DELETE("/follow/:userId", h.Unfollow)

		// Moderator routes
		moderator := authed.Group("", middleware.RequireRole(middleware.RoleModerator))
		moderator.POST("/deactivate", h.Deactivate)
		moderator.POST("/activate", h.Activate)
	}
}

// Get returns a profile with its derived stats
// GET /api/profiles/:handle
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.GetByHandle(c.Param("handle"))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetDistribution returns the 10-bucket histogram of a user's ratings
// GET /api/profiles/distribution/:userId?category=ALBUM
func (h *ProfileHandler) GetDistribution(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !validCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	distribution, err := h.ratingService.GetUserDistribution(c.Param("userId"), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, distribution)
}

// Create onboards a profile for the authenticated user
// POST /api/profiles
func (h *ProfileHandler) Create(c *gin.Context) {
	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.Create(middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrHandleInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// Update replaces the caller's mutable profile fields
// PUT /api/profiles
func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.Update(middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Follow makes the caller follow another profile
// POST /api/profiles/follow/:userId
func (h *ProfileHandler) Follow(c *gin.Context) {
	err := h.profileService.Follow(middleware.UserID(c), c.Param("userId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow), errors.Is(err, service.ErrAlreadyFollowing):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "followed"})
}

// Unfollow removes the caller's follow edge
// DELETE /api/profiles/follow/:userId
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	err := h.profileService.Unfollow(middleware.UserID(c), c.Param("userId"))
	if err != nil {
		if errors.Is(err, service.ErrNotFollowing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

// IsFollowing reports whether the caller follows a profile
// GET /api/profiles/is-following/:userId
func (h *ProfileHandler) IsFollowing(c *gin.Context) {
	isFollowing, err := h.profileService.IsFollowing(middleware.UserID(c), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_following": isFollowing})
}

// GetFollowers lists the profiles following a user
// GET /api/profiles/followers/:userId
func (h *ProfileHandler) GetFollowers(c *gin.Context) {
	h.followList(c, h.profileService.GetFollowers)
}

// GetFollowing lists the profiles a user follows
// GET /api/profiles/following/:userId
func (h *ProfileHandler) GetFollowing(c *gin.Context) {
	h.followList(c, h.profileService.GetFollowing)
}

func (h *ProfileHandler) followList(c *gin.Context, list func(profileID, viewerID string) ([]dto.FollowProfileItem, error)) {
	items, err := list(c.Param("userId"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Deactivate soft-deletes a profile (moderator only)
// POST /api/profiles/deactivate
func (h *ProfileHandler) Deactivate(c *gin.Context) {
	h.moderate(c, h.profileService.Deactivate)
}

// Activate restores a deactivated profile (moderator only)
// POST /api/profiles/activate
func (h *ProfileHandler) Activate(c *gin.Context) {
	h.moderate(c, h.profileService.Activate)
}

func (h *ProfileHandler) moderate(c *gin.Context, action func(userID string) error) {
	var req dto.ModerateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := action(req.UserID); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}
