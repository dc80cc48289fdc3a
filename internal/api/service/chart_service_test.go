package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hackthebois/recordscratch/internal/api/models"
	"github.com/hackthebois/recordscratch/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartService_GetCharts(t *testing.T) {
	t.Run("TopExcludesLowCountAlbums", func(t *testing.T) {
		ratingRepo := &mockRatingRepo{
			albums: []repository.ResourceAggregate{
				{ResourceID: "few", Total: 5, Average: 10},
				{ResourceID: "enough", Total: 6, Average: 4},
			},
		}
		svc := NewChartService(ratingRepo, &mockProfileRepo{}, nil, 0, nil)

		charts, err := svc.GetCharts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"enough"}, charts.Albums.Top)
		// Trending has no threshold, so both appear.
		assert.Contains(t, charts.Albums.Trending, "few")
	})

	t.Run("TrendingOrdersByCount", func(t *testing.T) {
		ratingRepo := &mockRatingRepo{
			albums: []repository.ResourceAggregate{
				{ResourceID: "a", Total: 2, Average: 10},
				{ResourceID: "b", Total: 9, Average: 1},
				{ResourceID: "c", Total: 5, Average: 5},
			},
		}
		svc := NewChartService(ratingRepo, &mockProfileRepo{}, nil, 0, nil)

		charts, err := svc.GetCharts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "a"}, charts.Albums.Trending)
	})

	t.Run("ScoreCanFavorVolumeOverAverage", func(t *testing.T) {
		// 7.0 with 100 ratings outscores 7.5 with 6 ratings under the
		// album weight.
		ratingRepo := &mockRatingRepo{
			albums: []repository.ResourceAggregate{
				{ResourceID: "beloved", Total: 6, Average: 7.5},
				{ResourceID: "popular", Total: 100, Average: 7.0},
			},
		}
		svc := NewChartService(ratingRepo, &mockProfileRepo{}, nil, 0, nil)

		charts, err := svc.GetCharts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"popular", "beloved"}, charts.Albums.Top)
	})

	t.Run("TiesBreakByID", func(t *testing.T) {
		ratingRepo := &mockRatingRepo{
			albums: []repository.ResourceAggregate{
				{ResourceID: "z", Total: 10, Average: 7},
				{ResourceID: "a", Total: 10, Average: 7},
			},
			artists: []repository.ArtistAggregate{
				{ArtistID: "y", Total: 10, Average: 7},
				{ArtistID: "b", Total: 10, Average: 7},
			},
		}
		svc := NewChartService(ratingRepo, &mockProfileRepo{}, nil, 0, nil)

		charts, err := svc.GetCharts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "z"}, charts.Albums.Top)
		assert.Equal(t, []string{"b", "y"}, charts.Artists.Top)
	})

	t.Run("ListsCapAtTwenty", func(t *testing.T) {
		albums := make([]repository.ResourceAggregate, 30)
		for i := range albums {
			albums[i] = repository.ResourceAggregate{
				ResourceID: fmt.Sprintf("album-%02d", i),
				Total:      int64(100 - i),
				Average:    7,
			}
		}
		ratingRepo := &mockRatingRepo{albums: albums}
		svc := NewChartService(ratingRepo, &mockProfileRepo{}, nil, 0, nil)

		charts, err := svc.GetCharts(context.Background())
		require.NoError(t, err)
		assert.Len(t, charts.Albums.Trending, 20)
		assert.Len(t, charts.Albums.Top, 20)
	})

	t.Run("FailingListDegradesToEmpty", func(t *testing.T) {
		ratingRepo := &mockRatingRepo{
			albumsErr: errors.New("boom"),
			artists: []repository.ArtistAggregate{
				{ArtistID: "x", Total: 10, Average: 7},
			},
		}
		svc := NewChartService(ratingRepo, &mockProfileRepo{}, nil, 0, nil)

		charts, err := svc.GetCharts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, charts.Albums.Top)
		assert.Empty(t, charts.Albums.Trending)
		assert.Equal(t, []string{"x"}, charts.Artists.Top)
	})

	t.Run("LeaderboardAttachesProfiles", func(t *testing.T) {
		ratingRepo := &mockRatingRepo{
			leaderboard: []repository.UserAggregate{
				{UserID: "u2", Total: 3},
				{UserID: "u1", Total: 9},
			},
		}
		profileRepo := &mockProfileRepo{
			profiles: map[string]models.Profile{
				"u1": {UserID: "u1", Handle: "first"},
				"u2": {UserID: "u2", Handle: "second"},
			},
		}
		svc := NewChartService(ratingRepo, profileRepo, nil, 0, nil)

		charts, err := svc.GetCharts(context.Background())
		require.NoError(t, err)
		require.Len(t, charts.Leaderboard, 2)
		assert.Equal(t, "first", charts.Leaderboard[0].Profile.Handle)
		assert.Equal(t, int64(9), charts.Leaderboard[0].Total)
		assert.Equal(t, "second", charts.Leaderboard[1].Profile.Handle)
	})

	t.Run("EmptyCorpusYieldsEmptyLists", func(t *testing.T) {
		svc := NewChartService(&mockRatingRepo{}, &mockProfileRepo{}, nil, 0, nil)

		charts, err := svc.GetCharts(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, charts.Albums.Trending)
		assert.Empty(t, charts.Albums.Trending)
		assert.Empty(t, charts.Albums.Top)
		assert.Empty(t, charts.Artists.Top)
		assert.Empty(t, charts.Leaderboard)
	})
}
