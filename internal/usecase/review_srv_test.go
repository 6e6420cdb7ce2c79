package usecase

import (
	"context"
	"testing"

	"whats-poppin/internal/data/entity"
	"whats-poppin/internal/data/repository"
	"whats-poppin/internal/dto/request"
	"whats-poppin/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReviewFixture(t *testing.T) (ReviewService, *mockVenueRepo, *fakeReviewRepo, *mapCache, *entity.VenueWithStats) {
	t.Helper()

	venues := &mockVenueRepo{}
	reviews := newFakeReviewRepo()
	c := newMapCache()
	venue := &entity.VenueWithStats{
		Venue: entity.Venue{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
			Name:         "Laugh Factory",
			Category:     entity.CategoryComedy,
		},
	}
	venues.On("FindByID", mock.Anything, venue.ID).Return(venue, nil)

	repo := &repository.Repository{Venue: venues, Review: reviews}
	return NewReviewService(repo, c, newTestLogger()), venues, reviews, c, venue
}

func TestReviewService_UpsertKeepsOneReviewPerUser(t *testing.T) {
	svc, _, _, _, venue := newReviewFixture(t)
	user := utils.Identity{UserID: uuid.New()}

	first, err := svc.UpsertMyReview(context.Background(), user, venue.ID.String(), &request.UpsertReviewRequest{Rating: 3})
	require.NoError(t, err)

	second, err := svc.UpsertMyReview(context.Background(), user, venue.ID.String(), &request.UpsertReviewRequest{
		Rating:  5,
		Comment: strPtr("better the second time"),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Rating)

	list, err := svc.GetVenueReviews(context.Background(), venue.ID.String())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "better the second time", *list[0].Comment)
}

func TestReviewService_Stats(t *testing.T) {
	svc, _, _, _, venue := newReviewFixture(t)

	for _, rating := range []int{4, 5} {
		_, err := svc.UpsertMyReview(context.Background(), utils.Identity{UserID: uuid.New()}, venue.ID.String(),
			&request.UpsertReviewRequest{Rating: rating})
		require.NoError(t, err)
	}

	stats, err := svc.GetVenueReviewStats(context.Background(), venue.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ReviewCount)
	assert.InDelta(t, 4.5, stats.AverageRating, 0.001)
}

func TestReviewService_UpsertRejectsBadRating(t *testing.T) {
	svc, _, reviews, _, venue := newReviewFixture(t)

	for _, rating := range []int{0, 6} {
		_, err := svc.UpsertMyReview(context.Background(), utils.Identity{UserID: uuid.New()}, venue.ID.String(),
			&request.UpsertReviewRequest{Rating: rating})
		require.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, reviews.rows)
}

func TestReviewService_UnknownVenue(t *testing.T) {
	svc, venues, _, _, _ := newReviewFixture(t)
	missing := uuid.New()
	venues.On("FindByID", mock.Anything, missing).Return(nil, nil)

	_, err := svc.UpsertMyReview(context.Background(), utils.Identity{UserID: uuid.New()}, missing.String(),
		&request.UpsertReviewRequest{Rating: 4})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetVenueReviews(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, ErrValidation)
}

func TestReviewService_MyReviewMissing(t *testing.T) {
	svc, _, _, _, venue := newReviewFixture(t)
	user := utils.Identity{UserID: uuid.New()}

	_, err := svc.GetMyReview(context.Background(), user, venue.ID.String())
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteMyReview(context.Background(), user, venue.ID.String())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService_WritesInvalidateCategoryListing(t *testing.T) {
	svc, _, _, c, venue := newReviewFixture(t)
	user := utils.Identity{UserID: uuid.New()}
	key := categoryCacheKey(venue.Category)

	require.NoError(t, c.Set(context.Background(), key, []string{"stale"}))
	_, err := svc.UpsertMyReview(context.Background(), user, venue.ID.String(), &request.UpsertReviewRequest{Rating: 2})
	require.NoError(t, err)
	assert.False(t, c.has(key))

	require.NoError(t, c.Set(context.Background(), key, []string{"stale"}))
	require.NoError(t, svc.DeleteMyReview(context.Background(), user, venue.ID.String()))
	assert.False(t, c.has(key))
}
