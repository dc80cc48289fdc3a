package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hackthebois/recordscratch/internal/api/dto"
	"github.com/hackthebois/recordscratch/internal/api/middleware"
	"github.com/hackthebois/recordscratch/internal/api/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RatingHandler struct {
	ratingService service.RatingService
	chartService  service.ChartService
	feedService   service.FeedService
}

func NewRatingHandler(
	ratingService service.RatingService,
	chartService service.ChartService,
	feedService service.FeedService,
) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		chartService:  chartService,
		feedService:   feedService,
	}
}

// RegisterRoutes registers rating-related routes
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup, jwtSecret string) {
	ratings := router.Group("/ratings")
	{
		// Public reads. OptionalAuth personalizes following filters.
		ratings.GET("", h.Get)
		ratings.GET("/list", h.GetList)
		ratings.GET("/charts", h.GetCharts)
		ratings.GET("/feed", middleware.OptionalAuth(jwtSecret), h.GetFeed)
		ratings.GET("/distribution", middleware.OptionalAuth(jwtSecret), h.GetDistribution)

		// Authenticated routes
		authed := ratings.Group("", middleware.RequireAuth(jwtSecret))
		authed.GET("/user", h.GetUserRating)
		authed.GET("/user/list", h.GetUserRatingList)
		authed.POST("", h.Rate)

		// Moderator routes
		moderator := authed.Group("", middleware.RequireRole(middleware.RoleModerator))
		moderator.POST("/deactivate", h.Deactivate)
		moderator.POST("/activate", h.Activate)
	}
}

// Get returns the aggregate rating for a resource
// GET /api/ratings?resource_id=...&category=ALBUM
func (h *RatingHandler) Get(c *gin.Context) {
	resourceID := c.Query("resource_id")
	category := c.Query("category")
	if resourceID == "" || !validCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource_id and valid category are required"})
		return
	}

	rating, err := h.ratingService.GetResourceRating(resourceID, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rating == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// GetList returns aggregate ratings for a batch of resources
// GET /api/ratings/list?resource_ids=a&resource_ids=b&category=ALBUM
func (h *RatingHandler) GetList(c *gin.Context) {
	resourceIDs := c.QueryArray("resource_ids")
	category := c.Query("category")
	if len(resourceIDs) == 0 || !validCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource_ids and valid category are required"})
		return
	}

	items, err := h.ratingService.GetResourceRatingList(resourceIDs, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetCharts returns the home-page charts
// GET /api/ratings/charts
func (h *RatingHandler) GetCharts(c *gin.Context) {
	charts, err := h.chartService.GetCharts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, charts)
}

// GetFeed returns one page of the activity feed
// GET /api/ratings/feed?limit=20&cursor=0&following=true&trending=true...
func (h *RatingHandler) GetFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	cursor, _ := strconv.Atoi(c.DefaultQuery("cursor", "0"))
	if limit < 1 || limit > 100 {
		limit = service.DefaultFeedLimit
	}
	if cursor < 0 {
		cursor = 0
	}

	var filters dto.FeedFiltersRequest
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feed, err := h.feedService.GetFeed(middleware.UserID(c), limit, cursor, &filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, feed)
}

// GetDistribution returns the 10-bucket rating histogram of a resource
// GET /api/ratings/distribution?resource_id=...&rating_type=REVIEW&following=true
func (h *RatingHandler) GetDistribution(c *gin.Context) {
	resourceID := c.Query("resource_id")
	if resourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource_id is required"})
		return
	}
	following, _ := strconv.ParseBool(c.DefaultQuery("following", "false"))
	ratingType := c.Query("rating_type")
	if ratingType != "" && ratingType != "REVIEW" && ratingType != "RATING" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating_type must be REVIEW or RATING"})
		return
	}

	distribution, err := h.ratingService.GetResourceDistribution(
		middleware.UserID(c),
		resourceID,
		service.DistributionFilters{RatingType: ratingType, Following: following},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, distribution)
}

// GetUserRating returns the caller's rating for a resource
// GET /api/ratings/user?resource_id=...
func (h *RatingHandler) GetUserRating(c *gin.Context) {
	resourceID := c.Query("resource_id")
	if resourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource_id is required"})
		return
	}

	rating, err := h.ratingService.GetUserRating(middleware.UserID(c), resourceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rating == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// GetUserRatingList returns the caller's ratings for a batch of resources
// GET /api/ratings/user/list?resource_ids=a&resource_ids=b&category=ALBUM
func (h *RatingHandler) GetUserRatingList(c *gin.Context) {
	resourceIDs := c.QueryArray("resource_ids")
	category := c.Query("category")
	if len(resourceIDs) == 0 || !validCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource_ids and valid category are required"})
		return
	}

	ratings, err := h.ratingService.GetUserRatingList(middleware.UserID(c), resourceIDs, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// Rate creates, replaces or clears the caller's rating
// POST /api/ratings
func (h *RatingHandler) Rate(c *gin.Context) {
	var req dto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ratingService.Rate(middleware.UserID(c), req); err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating saved"})
}

// Deactivate soft-deletes a rating (moderator only)
// POST /api/ratings/deactivate
func (h *RatingHandler) Deactivate(c *gin.Context) {
	h.moderate(c, h.ratingService.Deactivate)
}

// Activate restores a soft-deleted rating (moderator only)
// POST /api/ratings/activate
func (h *RatingHandler) Activate(c *gin.Context) {
	h.moderate(c, h.ratingService.Activate)
}

func (h *RatingHandler) moderate(c *gin.Context, action func(resourceID, userID string) error) {
	var req dto.ModerateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := action(req.ResourceID, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating updated"})
}

func validCategory(category string) bool {
	switch category {
	case "ALBUM", "SONG", "ARTIST":
		return true
	}
	return false
}
