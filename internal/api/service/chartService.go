package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/hackthebois/recordscratch/internal/api/dto"
	"github.com/hackthebois/recordscratch/internal/api/repository"

	"github.com/redis/go-redis/v9"
)

// chartsCacheKey stores the serialized charts response in Redis.
const chartsCacheKey = "charts:home"

type ChartService interface {
	GetCharts(ctx context.Context) (*dto.ChartsResponse, error)
}

type chartService struct {
	ratingRepo  repository.RatingRepository
	profileRepo repository.ProfileRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// NewChartService builds the home-page chart service. cache may be nil, in
// which case every request recomputes the charts.
func NewChartService(
	ratingRepo repository.RatingRepository,
	profileRepo repository.ProfileRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger *slog.Logger,
) ChartService {
	return &chartService{
		ratingRepo:  ratingRepo,
		profileRepo: profileRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// GetCharts produces the five home-page lists from the rating corpus. Each
// list is computed independently: a failing or empty list degrades to an
// empty slice without blocking the others.
func (s *chartService) GetCharts(ctx context.Context) (*dto.ChartsResponse, error) {
	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	charts := &dto.ChartsResponse{
		Albums: dto.AlbumCharts{
			Trending: []string{},
			Top:      []string{},
			Popular:  []string{},
		},
		Artists:     dto.ArtistCharts{Top: []string{}},
		Leaderboard: []dto.LeaderboardEntry{},
	}

	albums, err := s.ratingRepo.GetAlbumAggregates()
	if err != nil {
		s.warn("album aggregates", err)
	} else {
		charts.Albums.Trending = trendingAlbums(albums)
		charts.Albums.Top = topAlbums(albums)
		// Popular shares trending's count ordering today but is kept as a
		// separate list so the two can be tuned apart later.
		charts.Albums.Popular = trendingAlbums(albums)
	}

	artists, err := s.ratingRepo.GetArtistAggregates()
	if err != nil {
		s.warn("artist aggregates", err)
	} else {
		charts.Artists.Top = topArtists(artists)
	}

	leaderboard, err := s.leaderboard()
	if err != nil {
		s.warn("leaderboard", err)
	} else {
		charts.Leaderboard = leaderboard
	}

	s.writeCache(ctx, charts)
	return charts, nil
}

// trendingAlbums ranks albums by raw rating count, no minimum threshold.
func trendingAlbums(albums []repository.ResourceAggregate) []string {
	ranked := make([]repository.ResourceAggregate, len(albums))
	copy(ranked, albums)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].ResourceID < ranked[j].ResourceID
	})

	ids := make([]string, 0, chartSize)
	for _, agg := range ranked {
		if len(ids) == chartSize {
			break
		}
		ids = append(ids, agg.ResourceID)
	}
	return ids
}

// topAlbums ranks albums by composite score, admitting only albums with
// more than minScoredTotal ratings.
func topAlbums(albums []repository.ResourceAggregate) []string {
	type scored struct {
		id        string
		sortValue float64
	}
	ranked := make([]scored, 0, len(albums))
	for _, agg := range albums {
		if agg.Total <= minScoredTotal {
			continue
		}
		ranked = append(ranked, scored{
			id:        agg.ResourceID,
			sortValue: Score(agg.Average, agg.Total, AlbumCountWeight),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].sortValue != ranked[j].sortValue {
			return ranked[i].sortValue > ranked[j].sortValue
		}
		return ranked[i].id < ranked[j].id
	})

	ids := make([]string, 0, chartSize)
	for _, entry := range ranked {
		if len(ids) == chartSize {
			break
		}
		ids = append(ids, entry.id)
	}
	return ids
}

// topArtists ranks artists by composite score with the heavier count weight.
func topArtists(artists []repository.ArtistAggregate) []string {
	type scored struct {
		id        string
		sortValue float64
	}
	ranked := make([]scored, 0, len(artists))
	for _, agg := range artists {
		if agg.Total <= minScoredTotal {
			continue
		}
		ranked = append(ranked, scored{
			id:        agg.ArtistID,
			sortValue: Score(agg.Average, agg.Total, ArtistCountWeight),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].sortValue != ranked[j].sortValue {
			return ranked[i].sortValue > ranked[j].sortValue
		}
		return ranked[i].id < ranked[j].id
	})

	ids := make([]string, 0, chartSize)
	for _, entry := range ranked {
		if len(ids) == chartSize {
			break
		}
		ids = append(ids, entry.id)
	}
	return ids
}

// leaderboard ranks users by active rating count and attaches their profiles.
func (s *chartService) leaderboard() ([]dto.LeaderboardEntry, error) {
	aggs, err := s.ratingRepo.GetLeaderboard()
	if err != nil {
		return nil, err
	}
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].Total != aggs[j].Total {
			return aggs[i].Total > aggs[j].Total
		}
		return aggs[i].UserID < aggs[j].UserID
	})
	if len(aggs) > chartSize {
		aggs = aggs[:chartSize]
	}

	entries := []dto.LeaderboardEntry{}
	if len(aggs) == 0 {
		return entries, nil
	}

	ids := make([]string, 0, len(aggs))
	for _, agg := range aggs {
		ids = append(ids, agg.UserID)
	}
	profiles, err := s.profileRepo.GetByUserIDs(ids)
	if err != nil {
		return nil, err
	}

	for _, agg := range aggs {
		profile, ok := profiles[agg.UserID]
		if !ok {
			continue
		}
		entries = append(entries, dto.LeaderboardEntry{
			Profile: profile,
			Total:   agg.Total,
		})
	}
	return entries, nil
}

func (s *chartService) readCache(ctx context.Context) *dto.ChartsResponse {
	if s.cache == nil {
		return nil
	}
	payload, err := s.cache.Get(ctx, chartsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.warn("charts cache read", err)
		}
		return nil
	}
	var charts dto.ChartsResponse
	if err := json.Unmarshal(payload, &charts); err != nil {
		s.warn("charts cache decode", err)
		return nil
	}
	return &charts
}

func (s *chartService) writeCache(ctx context.Context, charts *dto.ChartsResponse) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(charts)
	if err != nil {
		s.warn("charts cache encode", err)
		return
	}
	if err := s.cache.Set(ctx, chartsCacheKey, payload, s.cacheTTL).Err(); err != nil {
		s.warn("charts cache write", err)
	}
}

func (s *chartService) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "error", err)
	}
}
