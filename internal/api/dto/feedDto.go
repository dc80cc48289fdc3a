package dto

import "github.com/hackthebois/recordscratch/internal/api/models"

// FeedResponse is one page of the activity feed. NextCursor is absent when
// the feed is exhausted.
type FeedResponse struct {
	Items      []models.Rating `json:"items"`
	NextCursor *int            `json:"next_cursor,omitempty"`
}

// FeedFiltersRequest carries the optional feed filters from the query
// string. All filters combine with AND.
type FeedFiltersRequest struct {
	Following  bool   `form:"following"`
	ProfileID  string `form:"profile_id"`
	ResourceID string `form:"resource_id"`
	Category   string `form:"category" binding:"omitempty,oneof=ALBUM SONG ARTIST"`
	Rating     int    `form:"rating" binding:"omitempty,min=1,max=10"`
	RatingType string `form:"rating_type" binding:"omitempty,oneof=REVIEW RATING"`
	Trending   bool   `form:"trending"`
}

// HasFilters reports whether any filter is set, which gates the analytics
// event on feed requests.
func (f *FeedFiltersRequest) HasFilters() bool {
	return f.Following || f.ProfileID != "" || f.ResourceID != "" ||
		f.Category != "" || f.Rating != 0 || f.RatingType != "" || f.Trending
}
