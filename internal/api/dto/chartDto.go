package dto

import "github.com/hackthebois/recordscratch/internal/api/models"

// ChartsResponse bundles the five home-page lists. Each list is computed
// independently; an empty slice means no qualifying rows, never an error.
type ChartsResponse struct {
	Albums      AlbumCharts        `json:"albums"`
	Artists     ArtistCharts       `json:"artists"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type AlbumCharts struct {
	Trending []string `json:"trending"`
	Top      []string `json:"top"`
	Popular  []string `json:"popular"`
}

type ArtistCharts struct {
	Top []string `json:"top"`
}

// LeaderboardEntry ranks a profile by its active rating count.
type LeaderboardEntry struct {
	Profile models.Profile `json:"profile"`
	Total   int64          `json:"total"`
}
