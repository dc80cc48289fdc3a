package repository

import (
	"time"

	"github.com/hackthebois/recordscratch/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResourceAggregate is one grouped row of the rating corpus: every active
// rating joined to a non-deactivated profile, grouped by resource.
type ResourceAggregate struct {
	ResourceID string  `json:"resource_id"`
	Total      int64   `json:"total"`
	Average    float64 `json:"average"`
}

// ArtistAggregate groups album ratings by the artist id carried in parent_id.
type ArtistAggregate struct {
	ArtistID string  `json:"artist_id"`
	Total    int64   `json:"total"`
	Average  float64 `json:"average"`
}

// UserAggregate counts active ratings per user for the leaderboard.
type UserAggregate struct {
	UserID string `json:"user_id"`
	Total  int64  `json:"total"`
}

// DistributionRow is one (rating value, count) pair of a histogram query.
type DistributionRow struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// Feed rating types.
const (
	RatingTypeReview = "REVIEW"
	RatingTypeRating = "RATING"
)

// FeedQuery is an immutable query spec for the activity feed. Optional
// fields fold into an AND-conjunction of predicates; zero values mean
// "no filter". FollowingIDs is resolved by the caller; an empty slice
// never reaches the repository (the service short-circuits).
type FeedQuery struct {
	Limit        int
	Cursor       int
	FollowingIDs []string
	ProfileID    string
	ResourceID   string
	Category     string
	Rating       int
	RatingType   string
	Trending     bool
}

// DistributionQuery selects the rating rows feeding a 10-bucket histogram.
// Exactly one of ResourceID / UserID is set.
type DistributionQuery struct {
	ResourceID   string
	UserID       string
	Category     string
	RatingType   string
	FollowingIDs []string
}

// trendingSortSQL is the feed engagement score: likes plus comments on the
// rating, plus a recency term. One like is worth 500000 seconds (~5.8 days)
// of age; the divisor is load-bearing and must not change.
const trendingSortSQL = `((SELECT COUNT(*) FROM likes WHERE likes.author_id = ratings.user_id AND likes.resource_id = ratings.resource_id)` +
	` + (SELECT COUNT(*) FROM comments WHERE comments.author_id = ratings.user_id AND comments.resource_id = ratings.resource_id AND comments.deactivated = false)` +
	` + EXTRACT(EPOCH FROM ratings.created_at) / 500000)`

type RatingRepository interface {
	Upsert(rating *models.Rating) error
	Delete(userID, resourceID, category string) error
	SetDeactivated(resourceID, userID string, deactivated bool) error
	GetByUserAndResource(userID, resourceID string) (*models.Rating, error)
	GetByUserAndResources(userID string, resourceIDs []string, category string) ([]models.Rating, error)
	GetAverage(resourceID, category string) (*ResourceAggregate, error)
	GetAverages(resourceIDs []string, category string) ([]ResourceAggregate, error)
	GetAlbumAggregates() ([]ResourceAggregate, error)
	GetArtistAggregates() ([]ArtistAggregate, error)
	GetLeaderboard() ([]UserAggregate, error)
	GetFeed(q FeedQuery) ([]models.Rating, error)
	GetDistribution(q DistributionQuery) ([]DistributionRow, error)
	GetRatingTimes(userID string) ([]time.Time, error)
	CountByUser(userID string) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert creates or replaces the user's rating for a resource in one round
// trip. The conflict target is the (resource_id, user_id) unique pair, so at
// most one active row per pair survives concurrent writers. Re-rating a
// moderated row reactivates it.
func (r *ratingRepository) Upsert(rating *models.Rating) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "resource_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rating", "category", "parent_id", "content", "deactivated", "updated_at",
		}),
	}).Create(rating).Error
}

// Delete physically removes the user's rating (the user cleared it).
func (r *ratingRepository) Delete(userID, resourceID, category string) error {
	return r.db.
		Where("user_id = ? AND resource_id = ? AND category = ?", userID, resourceID, category).
		Delete(&models.Rating{}).Error
}

// SetDeactivated flips the moderation soft-delete flag.
func (r *ratingRepository) SetDeactivated(resourceID, userID string, deactivated bool) error {
	result := r.db.Model(&models.Rating{}).
		Where("resource_id = ? AND user_id = ?", resourceID, userID).
		Update("deactivated", deactivated)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByUserAndResource retrieves a user's active rating for a resource.
func (r *ratingRepository) GetByUserAndResource(userID, resourceID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.
		Where("user_id = ? AND resource_id = ? AND deactivated = false", userID, resourceID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByUserAndResources retrieves a user's active ratings for a set of resources.
func (r *ratingRepository) GetByUserAndResources(userID string, resourceIDs []string, category string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.
		Where("user_id = ? AND resource_id IN ? AND category = ? AND deactivated = false", userID, resourceIDs, category).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// GetAverage aggregates active ratings for one resource. An ARTIST is rated
// indirectly: its aggregate spans the album ratings carrying its id as parent.
func (r *ratingRepository) GetAverage(resourceID, category string) (*ResourceAggregate, error) {
	q := r.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(ratings.rating), 0) AS average, COUNT(ratings.rating) AS total")

	if category == models.CategoryArtist {
		q = q.Where("ratings.parent_id = ? AND ratings.category = ? AND ratings.deactivated = false",
			resourceID, models.CategoryAlbum)
	} else {
		q = q.Where("ratings.resource_id = ? AND ratings.category = ? AND ratings.deactivated = false",
			resourceID, category)
	}

	agg := ResourceAggregate{ResourceID: resourceID}
	if err := q.Scan(&agg).Error; err != nil {
		return nil, err
	}
	return &agg, nil
}

// GetAverages aggregates active ratings for a batch of resources.
func (r *ratingRepository) GetAverages(resourceIDs []string, category string) ([]ResourceAggregate, error) {
	var aggs []ResourceAggregate
	err := r.db.Model(&models.Rating{}).
		Select("ratings.resource_id AS resource_id, COALESCE(AVG(ratings.rating), 0) AS average, COUNT(ratings.rating) AS total").
		Where("ratings.resource_id IN ? AND ratings.category = ? AND ratings.deactivated = false", resourceIDs, category).
		Group("ratings.resource_id").
		Scan(&aggs).Error
	if err != nil {
		return nil, err
	}
	return aggs, nil
}

// GetAlbumAggregates returns the full per-album aggregate of the rating
// corpus (active ratings joined to non-deactivated profiles). Ordering and
// truncation happen in the service so one query serves every album chart.
func (r *ratingRepository) GetAlbumAggregates() ([]ResourceAggregate, error) {
	var aggs []ResourceAggregate
	err := r.db.Model(&models.Rating{}).
		Select("ratings.resource_id AS resource_id, COUNT(ratings.rating) AS total, COALESCE(AVG(ratings.rating), 0) AS average").
		Joins("INNER JOIN profiles ON profiles.user_id = ratings.user_id AND profiles.deactivated = false").
		Where("ratings.category = ? AND ratings.deactivated = false", models.CategoryAlbum).
		Group("ratings.resource_id").
		Scan(&aggs).Error
	if err != nil {
		return nil, err
	}
	return aggs, nil
}

// GetArtistAggregates groups the album-rating corpus by artist.
func (r *ratingRepository) GetArtistAggregates() ([]ArtistAggregate, error) {
	var aggs []ArtistAggregate
	err := r.db.Model(&models.Rating{}).
		Select("ratings.parent_id AS artist_id, COUNT(ratings.rating) AS total, COALESCE(AVG(ratings.rating), 0) AS average").
		Joins("INNER JOIN profiles ON profiles.user_id = ratings.user_id AND profiles.deactivated = false").
		Where("ratings.category = ? AND ratings.deactivated = false AND ratings.parent_id IS NOT NULL", models.CategoryAlbum).
		Group("ratings.parent_id").
		Scan(&aggs).Error
	if err != nil {
		return nil, err
	}
	return aggs, nil
}

// GetLeaderboard counts active ratings of any category per non-deactivated user.
func (r *ratingRepository) GetLeaderboard() ([]UserAggregate, error) {
	var aggs []UserAggregate
	err := r.db.Model(&models.Rating{}).
		Select("ratings.user_id AS user_id, COUNT(ratings.rating) AS total").
		Joins("INNER JOIN profiles ON profiles.user_id = ratings.user_id AND profiles.deactivated = false").
		Where("ratings.deactivated = false").
		Group("ratings.user_id").
		Scan(&aggs).Error
	if err != nil {
		return nil, err
	}
	return aggs, nil
}

// GetFeed fetches one feed page plus one extra row so the caller can tell
// whether another page exists. One row per (user, resource) pair is
// guaranteed by the rating unique index, so no grouping is needed to
// collapse duplicates. The offset cursor is not stable under concurrent
// inserts: a row landing ahead of the cursor shifts later offsets and can
// duplicate or skip an item across pages. Accepted tradeoff.
func (r *ratingRepository) GetFeed(q FeedQuery) ([]models.Rating, error) {
	query := r.db.Model(&models.Rating{}).
		Joins("INNER JOIN profiles ON profiles.user_id = ratings.user_id AND profiles.deactivated = false").
		Where("ratings.deactivated = false")

	if len(q.FollowingIDs) > 0 {
		query = query.Where("ratings.user_id IN ?", q.FollowingIDs)
	}
	if q.ProfileID != "" {
		query = query.Where("ratings.user_id = ?", q.ProfileID)
	}
	if q.ResourceID != "" {
		query = query.Where("ratings.resource_id = ?", q.ResourceID)
	}
	if q.Category != "" {
		query = query.Where("ratings.category = ?", q.Category)
	}
	if q.Rating != 0 {
		query = query.Where("ratings.rating = ?", q.Rating)
	}
	switch q.RatingType {
	case RatingTypeReview:
		query = query.Where("ratings.content IS NOT NULL")
	case RatingTypeRating:
		query = query.Where("ratings.content IS NULL")
	}

	if q.Trending {
		query = query.Order(trendingSortSQL + " DESC")
	} else {
		query = query.Order("ratings.created_at DESC")
	}
	// Stable tie-break so pages do not reshuffle between calls.
	query = query.Order("ratings.resource_id ASC, ratings.user_id ASC")

	var ratings []models.Rating
	err := query.
		Preload("Profile").
		Offset(q.Cursor).
		Limit(q.Limit + 1).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// GetDistribution returns (value, count) pairs for the selected rating rows.
// Missing values simply produce no row; the service fills the histogram.
func (r *ratingRepository) GetDistribution(q DistributionQuery) ([]DistributionRow, error) {
	query := r.db.Model(&models.Rating{}).
		Select("ratings.rating AS rating, COUNT(ratings.rating) AS count").
		Joins("INNER JOIN profiles ON profiles.user_id = ratings.user_id AND profiles.deactivated = false").
		Where("ratings.deactivated = false")

	if q.ResourceID != "" {
		query = query.Where("ratings.resource_id = ?", q.ResourceID)
	}
	if q.UserID != "" {
		query = query.Where("ratings.user_id = ?", q.UserID)
	}
	if q.Category != "" {
		query = query.Where("ratings.category = ?", q.Category)
	}
	switch q.RatingType {
	case RatingTypeReview:
		query = query.Where("ratings.content IS NOT NULL")
	case RatingTypeRating:
		query = query.Where("ratings.content IS NULL")
	}
	if len(q.FollowingIDs) > 0 {
		query = query.Where("ratings.user_id IN ?", q.FollowingIDs)
	}

	var rows []DistributionRow
	err := query.
		Group("ratings.rating").
		Order("ratings.rating ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetRatingTimes returns the creation times of a user's active ratings,
// newest first, for streak computation.
func (r *ratingRepository) GetRatingTimes(userID string) ([]time.Time, error) {
	var times []time.Time
	err := r.db.Model(&models.Rating{}).
		Where("user_id = ? AND deactivated = false AND created_at IS NOT NULL", userID).
		Order("created_at DESC").
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// CountByUser counts a user's active ratings.
func (r *ratingRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Rating{}).
		Where("user_id = ? AND deactivated = false", userID).
		Count(&count).Error
	return count, err
}
