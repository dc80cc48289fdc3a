package service

import "math"

// Count weights for the composite ranking score. Artists aggregate fewer
// ratings than albums, so volume gets more influence there to offset
// small-sample averages.
const (
	AlbumCountWeight  = 0.3
	ArtistCountWeight = 0.8
)

// Ranked lists that use the composite score only admit resources with more
// than minScoredTotal ratings, and every chart truncates to chartSize.
const (
	minScoredTotal = 5
	chartSize      = 20
)

// Score computes the composite ranking score of a resource:
//
//	round(average, 1) + countWeight * ln(total)
//
// total must be positive; callers enforce the minimum-count threshold
// before scoring. A zero total is a programming error, not bad data.
func Score(average float64, total int64, countWeight float64) float64 {
	if total <= 0 {
		panic("service: Score called with non-positive rating count")
	}
	return math.Round(average*10)/10 + countWeight*math.Log(float64(total))
}
