package service

import (
	"errors"

	"github.com/hackthebois/recordscratch/internal/api/analytics"
	"github.com/hackthebois/recordscratch/internal/api/dto"
	"github.com/hackthebois/recordscratch/internal/api/models"
	"github.com/hackthebois/recordscratch/internal/api/repository"

	"gorm.io/gorm"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 10")

// DistributionFilters restricts the histogram corpus.
type DistributionFilters struct {
	RatingType string
	Following  bool
	Category   string
}

type RatingService interface {
	GetResourceRating(resourceID, category string) (*dto.ResourceRatingResponse, error)
	GetResourceRatingList(resourceIDs []string, category string) ([]dto.ResourceRatingListItem, error)
	GetUserRating(userID, resourceID string) (*models.Rating, error)
	GetUserRatingList(userID string, resourceIDs []string, category string) ([]models.Rating, error)
	Rate(userID string, input dto.RateRequest) error
	GetResourceDistribution(viewerID, resourceID string, filters DistributionFilters) ([]int, error)
	GetUserDistribution(userID, category string) ([]int, error)
	Deactivate(resourceID, userID string) error
	Activate(resourceID, userID string) error
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	followRepo repository.FollowRepository
	events     *analytics.Publisher
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	followRepo repository.FollowRepository,
	events *analytics.Publisher,
) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		followRepo: followRepo,
		events:     events,
	}
}

// GetResourceRating returns the aggregate rating of a resource, or nil when
// nothing qualifies. Absence of ratings is normal, not an error.
func (s *ratingService) GetResourceRating(resourceID, category string) (*dto.ResourceRatingResponse, error) {
	agg, err := s.ratingRepo.GetAverage(resourceID, category)
	if err != nil {
		return nil, err
	}
	if agg.Total == 0 {
		return nil, nil
	}
	return &dto.ResourceRatingResponse{Average: agg.Average, Total: agg.Total}, nil
}

// GetResourceRatingList returns aggregates for a batch of resources.
// Resources without ratings are omitted.
func (s *ratingService) GetResourceRatingList(resourceIDs []string, category string) ([]dto.ResourceRatingListItem, error) {
	if len(resourceIDs) == 0 {
		return []dto.ResourceRatingListItem{}, nil
	}
	aggs, err := s.ratingRepo.GetAverages(resourceIDs, category)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ResourceRatingListItem, 0, len(aggs))
	for _, agg := range aggs {
		items = append(items, dto.FromResourceAggregate(agg))
	}
	return items, nil
}

// GetUserRating returns the caller's active rating for a resource, or nil.
func (s *ratingService) GetUserRating(userID, resourceID string) (*models.Rating, error) {
	rating, err := s.ratingRepo.GetByUserAndResource(userID, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rating, nil
}

func (s *ratingService) GetUserRatingList(userID string, resourceIDs []string, category string) ([]models.Rating, error) {
	if len(resourceIDs) == 0 {
		return []models.Rating{}, nil
	}
	return s.ratingRepo.GetByUserAndResources(userID, resourceIDs, category)
}

// Rate upserts the caller's rating for a resource. A nil rating value
// clears the row entirely; otherwise a single conflict-keyed write leaves
// exactly one active row for the (user, resource) pair, reactivating a
// moderated one.
func (s *ratingService) Rate(userID string, input dto.RateRequest) error {
	if input.Rating == nil {
		if err := s.ratingRepo.Delete(userID, input.ResourceID, input.Category); err != nil {
			return err
		}
	} else {
		if *input.Rating < 1 || *input.Rating > 10 {
			return ErrInvalidRating
		}
		rating := &models.Rating{
			UserID:     userID,
			ResourceID: input.ResourceID,
			ParentID:   input.ParentID,
			Category:   input.Category,
			Rating:     *input.Rating,
			Content:    input.Content,
		}
		if err := s.ratingRepo.Upsert(rating); err != nil {
			return err
		}
	}

	s.events.Capture("rate", userID, map[string]any{
		"resource_id": input.ResourceID,
		"category":    input.Category,
		"rating":      input.Rating,
		"has_content": input.Content != nil,
	})
	return nil
}

// GetResourceDistribution builds the 10-bucket histogram of a resource's
// ratings. With the following filter and an empty following set the
// histogram is all zeros without touching the store.
func (s *ratingService) GetResourceDistribution(viewerID, resourceID string, filters DistributionFilters) ([]int, error) {
	query := repository.DistributionQuery{
		ResourceID: resourceID,
		RatingType: filters.RatingType,
	}
	if filters.Following && viewerID != "" {
		followingIDs, err := s.followRepo.GetFollowingIDs(viewerID)
		if err != nil {
			return nil, err
		}
		if len(followingIDs) == 0 {
			return make([]int, 10), nil
		}
		query.FollowingIDs = followingIDs
	}

	rows, err := s.ratingRepo.GetDistribution(query)
	if err != nil {
		return nil, err
	}
	return foldDistribution(rows), nil
}

// GetUserDistribution builds the histogram of one user's ratings,
// optionally restricted to a category.
func (s *ratingService) GetUserDistribution(userID, category string) ([]int, error) {
	rows, err := s.ratingRepo.GetDistribution(repository.DistributionQuery{
		UserID:   userID,
		Category: category,
	})
	if err != nil {
		return nil, err
	}
	return foldDistribution(rows), nil
}

// Deactivate soft-deletes a rating (moderator action).
func (s *ratingService) Deactivate(resourceID, userID string) error {
	return s.ratingRepo.SetDeactivated(resourceID, userID, true)
}

// Activate restores a soft-deleted rating.
func (s *ratingService) Activate(resourceID, userID string) error {
	return s.ratingRepo.SetDeactivated(resourceID, userID, false)
}

// foldDistribution fills a fixed 10-bucket histogram: index i holds the
// count of ratings with value i+1. The slice is always fully populated.
func foldDistribution(rows []repository.DistributionRow) []int {
	buckets := make([]int, 10)
	for _, row := range rows {
		if row.Rating < 1 || row.Rating > 10 {
			continue
		}
		buckets[row.Rating-1] = int(row.Count)
	}
	return buckets
}
