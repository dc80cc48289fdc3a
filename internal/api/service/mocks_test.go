package service

import (
	"time"

	"github.com/hackthebois/recordscratch/internal/api/models"
	"github.com/hackthebois/recordscratch/internal/api/repository"

	"gorm.io/gorm"
)

// Mock repositories for testing

type mockRatingRepo struct {
	albums          []repository.ResourceAggregate
	albumsErr       error
	artists         []repository.ArtistAggregate
	artistsErr      error
	leaderboard     []repository.UserAggregate
	leaderboardErr  error
	feed            []models.Rating
	feedErr         error
	lastFeedQuery   *repository.FeedQuery
	distribution    []repository.DistributionRow
	distributionErr error
	lastDistQuery   *repository.DistributionQuery
	ratingTimes     []time.Time
	average         *repository.ResourceAggregate
	averages        []repository.ResourceAggregate
	userRating      *models.Rating
	userRatings     []models.Rating
	countByUser     int64
	upserted        []*models.Rating
	deleted         [][3]string
	moderated       []bool
	err             error
}

func (m *mockRatingRepo) Upsert(rating *models.Rating) error {
	m.upserted = append(m.upserted, rating)
	return m.err
}

func (m *mockRatingRepo) Delete(userID, resourceID, category string) error {
	m.deleted = append(m.deleted, [3]string{userID, resourceID, category})
	return m.err
}

func (m *mockRatingRepo) SetDeactivated(resourceID, userID string, deactivated bool) error {
	m.moderated = append(m.moderated, deactivated)
	return m.err
}

func (m *mockRatingRepo) GetByUserAndResource(userID, resourceID string) (*models.Rating, error) {
	if m.userRating == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.userRating, nil
}

func (m *mockRatingRepo) GetByUserAndResources(userID string, resourceIDs []string, category string) ([]models.Rating, error) {
	return m.userRatings, m.err
}

func (m *mockRatingRepo) GetAverage(resourceID, category string) (*repository.ResourceAggregate, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.average == nil {
		return &repository.ResourceAggregate{ResourceID: resourceID}, nil
	}
	return m.average, nil
}

func (m *mockRatingRepo) GetAverages(resourceIDs []string, category string) ([]repository.ResourceAggregate, error) {
	return m.averages, m.err
}

func (m *mockRatingRepo) GetAlbumAggregates() ([]repository.ResourceAggregate, error) {
	return m.albums, m.albumsErr
}

func (m *mockRatingRepo) GetArtistAggregates() ([]repository.ArtistAggregate, error) {
	return m.artists, m.artistsErr
}

func (m *mockRatingRepo) GetLeaderboard() ([]repository.UserAggregate, error) {
	return m.leaderboard, m.leaderboardErr
}

func (m *mockRatingRepo) GetFeed(q repository.FeedQuery) ([]models.Rating, error) {
	m.lastFeedQuery = &q
	if m.feedErr != nil {
		return nil, m.feedErr
	}
	// Respect offset and limit+1 the way the store does.
	rows := m.feed
	if q.Cursor >= len(rows) {
		return nil, nil
	}
	rows = rows[q.Cursor:]
	if len(rows) > q.Limit+1 {
		rows = rows[:q.Limit+1]
	}
	return rows, nil
}

func (m *mockRatingRepo) GetDistribution(q repository.DistributionQuery) ([]repository.DistributionRow, error) {
	m.lastDistQuery = &q
	return m.distribution, m.distributionErr
}

func (m *mockRatingRepo) GetRatingTimes(userID string) ([]time.Time, error) {
	return m.ratingTimes, m.err
}

func (m *mockRatingRepo) CountByUser(userID string) (int64, error) {
	return m.countByUser, m.err
}

type mockProfileRepo struct {
	profiles map[string]models.Profile // keyed by user id
	byHandle map[string]models.Profile
	created  []*models.Profile
	updated  []*models.Profile
	err      error
}

func (m *mockProfileRepo) Create(profile *models.Profile) error {
	m.created = append(m.created, profile)
	return m.err
}

func (m *mockProfileRepo) Update(profile *models.Profile) error {
	m.updated = append(m.updated, profile)
	return m.err
}

func (m *mockProfileRepo) GetByHandle(handle string) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.byHandle[handle]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByUserID(userID string) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.profiles[userID]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByUserIDs(userIDs []string) (map[string]models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	found := make(map[string]models.Profile)
	for _, id := range userIDs {
		if p, ok := m.profiles[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (m *mockProfileRepo) SetDeactivated(userID string, deactivated bool) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.profiles[userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	p := m.profiles[userID]
	p.Deactivated = deactivated
	m.profiles[userID] = p
	return nil
}

type mockFollowRepo struct {
	followingIDs   []string
	exists         bool
	created        []*models.Follow
	deleteNotFound bool
	countFollowers int64
	countFollowing int64
	followers      []models.Follow
	following      []models.Follow
	err            error
}

func (m *mockFollowRepo) Create(follow *models.Follow) error {
	m.created = append(m.created, follow)
	return m.err
}

func (m *mockFollowRepo) Delete(userID, followingID string) error {
	if m.deleteNotFound {
		return gorm.ErrRecordNotFound
	}
	return m.err
}

func (m *mockFollowRepo) Exists(userID, followingID string) (bool, error) {
	return m.exists, m.err
}

func (m *mockFollowRepo) GetFollowingIDs(userID string) ([]string, error) {
	return m.followingIDs, m.err
}

func (m *mockFollowRepo) CountFollowers(userID string) (int64, error) {
	return m.countFollowers, m.err
}

func (m *mockFollowRepo) CountFollowing(userID string) (int64, error) {
	return m.countFollowing, m.err
}

func (m *mockFollowRepo) ListFollowers(userID string) ([]models.Follow, error) {
	return m.followers, m.err
}

func (m *mockFollowRepo) ListFollowing(userID string) ([]models.Follow, error) {
	return m.following, m.err
}

type mockLikeRepo struct {
	received int64
	err      error
}

func (m *mockLikeRepo) CountReceived(authorID string) (int64, error) {
	return m.received, m.err
}

func (m *mockLikeRepo) CountForRating(authorID, resourceID string) (int64, error) {
	return 0, m.err
}
