package service

import (
	"github.com/hackthebois/recordscratch/internal/api/analytics"
	"github.com/hackthebois/recordscratch/internal/api/dto"
	"github.com/hackthebois/recordscratch/internal/api/models"
	"github.com/hackthebois/recordscratch/internal/api/repository"
)

// DefaultFeedLimit is the page size when the client does not ask for one.
const DefaultFeedLimit = 20

type FeedService interface {
	GetFeed(userID string, limit, cursor int, filters *dto.FeedFiltersRequest) (*dto.FeedResponse, error)
}

type feedService struct {
	ratingRepo repository.RatingRepository
	followRepo repository.FollowRepository
	events     *analytics.Publisher
}

func NewFeedService(
	ratingRepo repository.RatingRepository,
	followRepo repository.FollowRepository,
	events *analytics.Publisher,
) FeedService {
	return &feedService{
		ratingRepo: ratingRepo,
		followRepo: followRepo,
		events:     events,
	}
}

// GetFeed returns one page of the activity feed. userID is empty for
// anonymous callers; the following filter then has no effect. The offset
// cursor advances by the page length; a missing next cursor means the feed
// is exhausted under the current dataset.
func (s *feedService) GetFeed(userID string, limit, cursor int, filters *dto.FeedFiltersRequest) (*dto.FeedResponse, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if cursor < 0 {
		cursor = 0
	}

	if filters != nil && filters.HasFilters() && userID != "" {
		s.events.Capture("feed", userID, map[string]any{
			"following":   filters.Following,
			"profile_id":  filters.ProfileID,
			"resource_id": filters.ResourceID,
			"category":    filters.Category,
			"rating":      filters.Rating,
			"rating_type": filters.RatingType,
			"trending":    filters.Trending,
		})
	}

	query := repository.FeedQuery{Limit: limit, Cursor: cursor}
	if filters != nil {
		if filters.Following && userID != "" {
			followingIDs, err := s.followRepo.GetFollowingIDs(userID)
			if err != nil {
				return nil, err
			}
			// Following nobody means an empty feed; skip the query.
			if len(followingIDs) == 0 {
				return &dto.FeedResponse{Items: []models.Rating{}}, nil
			}
			query.FollowingIDs = followingIDs
		}
		query.ProfileID = filters.ProfileID
		query.ResourceID = filters.ResourceID
		query.Category = filters.Category
		query.Rating = filters.Rating
		query.RatingType = filters.RatingType
		query.Trending = filters.Trending
	}

	items, err := s.ratingRepo.GetFeed(query)
	if err != nil {
		return nil, err
	}

	response := &dto.FeedResponse{Items: items}
	if len(items) > limit {
		response.Items = items[:limit]
		next := cursor + limit
		response.NextCursor = &next
	}
	if response.Items == nil {
		response.Items = []models.Rating{}
	}
	return response, nil
}
