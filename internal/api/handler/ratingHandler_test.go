package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hackthebois/recordscratch/internal/api/dto"
	"github.com/hackthebois/recordscratch/internal/api/handler"
	"github.com/hackthebois/recordscratch/internal/api/models"
	"github.com/hackthebois/recordscratch/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubRatingService struct {
	rated        []dto.RateRequest
	ratedUserIDs []string
	rateErr      error
	rating       *dto.ResourceRatingResponse
	distribution []int
}

func (s *stubRatingService) GetResourceRating(resourceID, category string) (*dto.ResourceRatingResponse, error) {
	return s.rating, nil
}

func (s *stubRatingService) GetResourceRatingList(resourceIDs []string, category string) ([]dto.ResourceRatingListItem, error) {
	return []dto.ResourceRatingListItem{}, nil
}

func (s *stubRatingService) GetUserRating(userID, resourceID string) (*models.Rating, error) {
	return nil, nil
}

func (s *stubRatingService) GetUserRatingList(userID string, resourceIDs []string, category string) ([]models.Rating, error) {
	return []models.Rating{}, nil
}

func (s *stubRatingService) Rate(userID string, input dto.RateRequest) error {
	s.rated = append(s.rated, input)
	s.ratedUserIDs = append(s.ratedUserIDs, userID)
	return s.rateErr
}

func (s *stubRatingService) GetResourceDistribution(viewerID, resourceID string, filters service.DistributionFilters) ([]int, error) {
	if s.distribution == nil {
		return make([]int, 10), nil
	}
	return s.distribution, nil
}

func (s *stubRatingService) GetUserDistribution(userID, category string) ([]int, error) {
	return make([]int, 10), nil
}

func (s *stubRatingService) Deactivate(resourceID, userID string) error { return nil }
func (s *stubRatingService) Activate(resourceID, userID string) error   { return nil }

type stubChartService struct {
	charts *dto.ChartsResponse
}

func (s *stubChartService) GetCharts(ctx context.Context) (*dto.ChartsResponse, error) {
	return s.charts, nil
}

type stubFeedService struct {
	lastUserID string
	lastLimit  int
	lastCursor int
}

func (s *stubFeedService) GetFeed(userID string, limit, cursor int, filters *dto.FeedFiltersRequest) (*dto.FeedResponse, error) {
	s.lastUserID = userID
	s.lastLimit = limit
	s.lastCursor = cursor
	return &dto.FeedResponse{Items: []models.Rating{}}, nil
}

func newRatingRouter(ratingSvc *stubRatingService, chartSvc *stubChartService, feedSvc *stubFeedService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	handler.NewRatingHandler(ratingSvc, chartSvc, feedSvc).RegisterRoutes(api, testSecret)
	return router
}

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestRatingHandler_Get(t *testing.T) {
	t.Run("RequiresResourceAndCategory", func(t *testing.T) {
		router := newRatingRouter(&stubRatingService{}, &stubChartService{}, &stubFeedService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/ratings?resource_id=r1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NullBodyWhenUnrated", func(t *testing.T) {
		router := newRatingRouter(&stubRatingService{}, &stubChartService{}, &stubFeedService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/ratings?resource_id=r1&category=ALBUM", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())
	})
}

func TestRatingHandler_Rate(t *testing.T) {
	t.Run("RejectsAnonymous", func(t *testing.T) {
		ratingSvc := &stubRatingService{}
		router := newRatingRouter(ratingSvc, &stubChartService{}, &stubFeedService{})

		body, _ := json.Marshal(gin.H{"resource_id": "r1", "category": "ALBUM", "rating": 8})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/ratings", bytes.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, ratingSvc.rated)
	})

	t.Run("AcceptsValidToken", func(t *testing.T) {
		ratingSvc := &stubRatingService{}
		router := newRatingRouter(ratingSvc, &stubChartService{}, &stubFeedService{})

		body, _ := json.Marshal(gin.H{"resource_id": "r1", "category": "ALBUM", "rating": 8})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/ratings", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", ""))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, ratingSvc.rated, 1)
		assert.Equal(t, "u1", ratingSvc.ratedUserIDs[0])
		assert.Equal(t, "r1", ratingSvc.rated[0].ResourceID)
	})

	t.Run("RejectsBadCategory", func(t *testing.T) {
		router := newRatingRouter(&stubRatingService{}, &stubChartService{}, &stubFeedService{})

		body, _ := json.Marshal(gin.H{"resource_id": "r1", "category": "MOVIE", "rating": 8})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/ratings", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", ""))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRatingHandler_Moderation(t *testing.T) {
	body, _ := json.Marshal(gin.H{"resource_id": "r1", "user_id": "u2"})

	t.Run("RejectsNonModerator", func(t *testing.T) {
		router := newRatingRouter(&stubRatingService{}, &stubChartService{}, &stubFeedService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/ratings/deactivate", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", ""))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("AllowsModerator", func(t *testing.T) {
		router := newRatingRouter(&stubRatingService{}, &stubChartService{}, &stubFeedService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/ratings/deactivate", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", "moderator"))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRatingHandler_GetFeed(t *testing.T) {
	t.Run("AnonymousGetsDefaultPage", func(t *testing.T) {
		feedSvc := &stubFeedService{}
		router := newRatingRouter(&stubRatingService{}, &stubChartService{}, feedSvc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/ratings/feed", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, feedSvc.lastUserID)
		assert.Equal(t, 20, feedSvc.lastLimit)
		assert.Equal(t, 0, feedSvc.lastCursor)
	})

	t.Run("TokenIdentifiesCaller", func(t *testing.T) {
		feedSvc := &stubFeedService{}
		router := newRatingRouter(&stubRatingService{}, &stubChartService{}, feedSvc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/ratings/feed?limit=5&cursor=10", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", ""))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", feedSvc.lastUserID)
		assert.Equal(t, 5, feedSvc.lastLimit)
		assert.Equal(t, 10, feedSvc.lastCursor)
	})
}

func TestRatingHandler_GetCharts(t *testing.T) {
	chartSvc := &stubChartService{
		charts: &dto.ChartsResponse{
			Albums: dto.AlbumCharts{
				Trending: []string{"a"},
				Top:      []string{"b"},
				Popular:  []string{"a"},
			},
			Artists:     dto.ArtistCharts{Top: []string{"c"}},
			Leaderboard: []dto.LeaderboardEntry{},
		},
	}
	router := newRatingRouter(&stubRatingService{}, chartSvc, &stubFeedService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ratings/charts", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var charts dto.ChartsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &charts))
	assert.Equal(t, []string{"b"}, charts.Albums.Top)
	assert.Equal(t, []string{"c"}, charts.Artists.Top)
}
