package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"whats-poppin/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func sqlLike(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func TestBookingRepository_Create(t *testing.T) {
	pool := newMockPool(t)
	repo := NewBookingRepository(pool, zap.NewNop())

	now := time.Now()
	b := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		VenueID:      uuid.New(),
		UserID:       uuid.New(),
		BookingDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		BookingTime:  "19:00:00",
		PartySize:    4,
		AmountCents:  2500,
		Status:       entity.BookingStatusPending,
	}

	pool.ExpectExec(sqlLike("INSERT INTO bookings")).
		WithArgs(b.ID, b.VenueID, b.UserID, b.BookingDate, "19:00:00", 4, int64(2500), entity.BookingStatusPending, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), b))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestBookingRepository_Create_Error(t *testing.T) {
	pool := newMockPool(t)
	repo := NewBookingRepository(pool, zap.NewNop())

	pool.ExpectExec(sqlLike("INSERT INTO bookings")).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(errors.New("insert or update on table \"bookings\" violates foreign key constraint"))

	err := repo.Create(context.Background(), &entity.Booking{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create booking")
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestBookingRepository_Confirm_NotEligible(t *testing.T) {
	pool := newMockPool(t)
	repo := NewBookingRepository(pool, zap.NewNop())
	id := uuid.New()

	pool.ExpectQuery(sqlLike("SET status = 'confirmed'")).
		WithArgs(id, "pi_1").
		WillReturnError(pgx.ErrNoRows)

	booking, err := repo.Confirm(context.Background(), id, "pi_1")
	require.NoError(t, err)
	assert.Nil(t, booking)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestBookingRepository_Cancel_NotEligible(t *testing.T) {
	pool := newMockPool(t)
	repo := NewBookingRepository(pool, zap.NewNop())
	id, userID := uuid.New(), uuid.New()

	pool.ExpectQuery(sqlLike("WHERE id = $1 AND user_id = $2 AND status = 'pending'")).
		WithArgs(id, userID).
		WillReturnError(pgx.ErrNoRows)

	booking, err := repo.Cancel(context.Background(), id, userID)
	require.NoError(t, err)
	assert.Nil(t, booking)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestBookingRepository_CountByUserID(t *testing.T) {
	pool := newMockPool(t)
	repo := NewBookingRepository(pool, zap.NewNop())
	userID := uuid.New()

	pool.ExpectQuery(sqlLike("SELECT COUNT(*) FROM bookings WHERE user_id = $1")).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.CountByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestBookingRepository_FindByID_Missing(t *testing.T) {
	pool := newMockPool(t)
	repo := NewBookingRepository(pool, zap.NewNop())
	id := uuid.New()

	pool.ExpectQuery(sqlLike("FROM bookings WHERE id = $1")).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	booking, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, booking)
}

func TestReviewRepository_Delete(t *testing.T) {
	pool := newMockPool(t)
	repo := NewReviewRepository(pool, zap.NewNop())
	userID, venueID := uuid.New(), uuid.New()

	pool.ExpectExec(sqlLike("DELETE FROM reviews WHERE user_id = $1 AND venue_id = $2")).
		WithArgs(userID, venueID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	pool.ExpectExec(sqlLike("DELETE FROM reviews WHERE user_id = $1 AND venue_id = $2")).
		WithArgs(userID, venueID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), userID, venueID))
	require.ErrorIs(t, repo.Delete(context.Background(), userID, venueID), ErrNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestReviewRepository_StatsByVenue(t *testing.T) {
	pool := newMockPool(t)
	repo := NewReviewRepository(pool, zap.NewNop())
	venueID := uuid.New()

	pool.ExpectQuery(sqlLike("SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8")).
		WithArgs(venueID).
		WillReturnRows(pgxmock.NewRows([]string{"count", "avg"}).AddRow(int64(4), 3.75))

	stats, err := repo.StatsByVenue(context.Background(), venueID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.ReviewCount)
	assert.Equal(t, 3.75, stats.AverageRating)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestReviewRepository_FindByUserAndVenue_Missing(t *testing.T) {
	pool := newMockPool(t)
	repo := NewReviewRepository(pool, zap.NewNop())
	userID, venueID := uuid.New(), uuid.New()

	pool.ExpectQuery(sqlLike("FROM reviews WHERE user_id = $1 AND venue_id = $2")).
		WithArgs(userID, venueID).
		WillReturnError(pgx.ErrNoRows)

	review, err := repo.FindByUserAndVenue(context.Background(), userID, venueID)
	require.NoError(t, err)
	assert.Nil(t, review)
}

func TestVisitRepository_Record(t *testing.T) {
	visit := &entity.VenueVisit{
		ID:        uuid.New(),
		VenueID:   uuid.New(),
		VisitedAt: time.Now(),
	}

	t.Run("commits both writes", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewVisitRepository(pool, zap.NewNop())

		pool.ExpectBegin()
		pool.ExpectQuery(sqlLike("UPDATE venues SET traffic_count = traffic_count + 1")).
			WithArgs(visit.VenueID).
			WillReturnRows(pgxmock.NewRows([]string{"category"}).AddRow("live_music"))
		pool.ExpectExec(sqlLike("INSERT INTO venue_visits")).
			WithArgs(visit.ID, visit.VenueID, visit.UserLatitude, visit.UserLongitude, visit.VisitedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		pool.ExpectCommit()

		category, err := repo.Record(context.Background(), visit)
		require.NoError(t, err)
		assert.Equal(t, entity.CategoryLiveMusic, category)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("missing venue rolls back before the insert", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewVisitRepository(pool, zap.NewNop())

		pool.ExpectBegin()
		pool.ExpectQuery(sqlLike("UPDATE venues SET traffic_count")).
			WithArgs(visit.VenueID).
			WillReturnError(pgx.ErrNoRows)
		pool.ExpectRollback()

		_, err := repo.Record(context.Background(), visit)
		require.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewVisitRepository(pool, zap.NewNop())

		pool.ExpectBegin()
		pool.ExpectQuery(sqlLike("UPDATE venues SET traffic_count")).
			WithArgs(visit.VenueID).
			WillReturnRows(pgxmock.NewRows([]string{"category"}).AddRow("comedy"))
		pool.ExpectExec(sqlLike("INSERT INTO venue_visits")).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection reset"))
		pool.ExpectRollback()

		_, err := repo.Record(context.Background(), visit)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestSessionRepository_MalformedToken(t *testing.T) {
	pool := newMockPool(t)
	repo := NewSessionRepository(pool, zap.NewNop())

	session, err := repo.FindValidSession(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, session)

	require.ErrorIs(t, repo.Revoke(context.Background(), "not-a-uuid"), ErrNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestSessionRepository_Revoke(t *testing.T) {
	pool := newMockPool(t)
	repo := NewSessionRepository(pool, zap.NewNop())
	token := uuid.New()

	pool.ExpectExec(sqlLike("SET revoked_at = NOW()")).
		WithArgs(token).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.ErrorIs(t, repo.Revoke(context.Background(), token.String()), ErrNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestSessionRepository_CleanExpiredSessions(t *testing.T) {
	pool := newMockPool(t)
	repo := NewSessionRepository(pool, zap.NewNop())

	pool.ExpectExec(sqlLike("DELETE FROM sessions")).
		WillReturnResult(pgxmock.NewResult("DELETE", 5))

	n, err := repo.CleanExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestVenueRepository_Exists(t *testing.T) {
	pool := newMockPool(t)
	repo := NewVenueRepository(pool, zap.NewNop())
	id := uuid.New()

	pool.ExpectQuery(sqlLike("SELECT EXISTS")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)
}
