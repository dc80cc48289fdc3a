package dto

import (
	"github.com/hackthebois/recordscratch/internal/api/repository"
)

// RateRequest creates, replaces or clears the caller's rating for a
// resource. A nil Rating clears it.
type RateRequest struct {
	ResourceID string  `json:"resource_id" binding:"required"`
	ParentID   *string `json:"parent_id"`
	Category   string  `json:"category" binding:"required,oneof=ALBUM SONG ARTIST"`
	Rating     *int    `json:"rating" binding:"omitempty,min=1,max=10"`
	Content    *string `json:"content"`
}

// ResourceRatingResponse is the aggregate rating of one resource.
type ResourceRatingResponse struct {
	Average float64 `json:"average"`
	Total   int64   `json:"total"`
}

// ResourceRatingListItem is one entry of a batch aggregate lookup.
type ResourceRatingListItem struct {
	ResourceID string  `json:"resource_id"`
	Average    float64 `json:"average"`
	Total      int64   `json:"total"`
}

// FromResourceAggregate converts a grouped repository row to a list item.
func FromResourceAggregate(agg repository.ResourceAggregate) ResourceRatingListItem {
	return ResourceRatingListItem{
		ResourceID: agg.ResourceID,
		Average:    agg.Average,
		Total:      agg.Total,
	}
}

// ModerateRatingRequest targets one rating for deactivation or activation.
type ModerateRatingRequest struct {
	ResourceID string `json:"resource_id" binding:"required"`
	UserID     string `json:"user_id" binding:"required"`
}
