package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"

	"whats-poppin/internal/data/entity"
	"whats-poppin/internal/data/repository"
	"whats-poppin/pkg/payment"
	"whats-poppin/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const testFeeCents = 2500

func newTestConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{
			Name:            "whats-poppin-test",
			PublicURL:       "http://localhost:5173",
			BookingFeeCents: testFeeCents,
		},
		JWT: utils.JWTConfig{
			Secret:      "test-secret",
			ExpiryHours: 1,
		},
		RabbitMQ: utils.RabbitMQConfig{VisitQueue: "venue.visits"},
	}
}

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// ---------- venue ----------

type mockVenueRepo struct {
	mock.Mock
}

func (m *mockVenueRepo) Create(ctx context.Context, venue *entity.Venue) error {
	return m.Called(ctx, venue).Error(0)
}

func (m *mockVenueRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.VenueWithStats, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*entity.VenueWithStats)
	return v, args.Error(1)
}

func (m *mockVenueRepo) FindByCategory(ctx context.Context, category entity.VenueCategory) ([]*entity.VenueWithStats, error) {
	args := m.Called(ctx, category)
	v, _ := args.Get(0).([]*entity.VenueWithStats)
	return v, args.Error(1)
}

func (m *mockVenueRepo) FindTrending(ctx context.Context, limit int) ([]*entity.VenueWithStats, error) {
	args := m.Called(ctx, limit)
	v, _ := args.Get(0).([]*entity.VenueWithStats)
	return v, args.Error(1)
}

func (m *mockVenueRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// ---------- profile ----------

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*entity.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *entity.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockProfileRepo) SetStripeCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error {
	return m.Called(ctx, userID, customerID).Error(0)
}

// ---------- user / session ----------

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateWithProfile(ctx context.Context, user *entity.User, profile *entity.Profile) error {
	return m.Called(ctx, user, profile).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*entity.Session)
	return s, args.Error(1)
}

func (m *mockSessionRepo) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ---------- visits / queue ----------

type mockVisitRepo struct {
	mock.Mock
}

func (m *mockVisitRepo) Record(ctx context.Context, visit *entity.VenueVisit) (entity.VenueCategory, error) {
	args := m.Called(ctx, visit)
	return args.Get(0).(entity.VenueCategory), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, queue string, payload any) error {
	return m.Called(ctx, queue, payload).Error(0)
}

// ---------- payment ----------

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error) {
	args := m.Called(ctx, email, metadata)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, in payment.CheckoutInput) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*payment.CheckoutSession)
	return s, args.Error(1)
}

func (m *mockGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(*payment.CheckoutSession)
	return s, args.Error(1)
}

// checkoutInput returns the input of the first CreateCheckoutSession call.
func (m *mockGateway) checkoutInput(t *testing.T) payment.CheckoutInput {
	t.Helper()
	for _, c := range m.Calls {
		if c.Method == "CreateCheckoutSession" {
			return c.Arguments.Get(1).(payment.CheckoutInput)
		}
	}
	t.Fatal("CreateCheckoutSession was not called")
	return payment.CheckoutInput{}
}

// ---------- stateful fakes ----------

// fakeBookingRepo keeps rows in memory with the same transition rules as the
// SQL in bookingRepository.
type fakeBookingRepo struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]entity.Booking
	confirmErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{rows: map[uuid.UUID]entity.Booking{}}
}

func (f *fakeBookingRepo) seed(b entity.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[b.ID] = b
}

func (f *fakeBookingRepo) get(id uuid.UUID) (entity.Booking, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	return b, ok
}

func (f *fakeBookingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	f.seed(*booking)
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	b, ok := f.get(id)
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entity.Booking
	for _, b := range f.rows {
		if b.UserID == userID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if offset >= len(out) {
		return nil, nil
	}
	end := min(offset+limit, len(out))
	return out[offset:end], nil
}

func (f *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, b := range f.rows {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) Confirm(_ context.Context, id uuid.UUID, paymentIntentID string) (*entity.Booking, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.rows[id]
	if !ok || b.Status == entity.BookingStatusCanceled {
		return nil, nil
	}
	b.Status = entity.BookingStatusConfirmed
	if paymentIntentID != "" {
		b.PaymentIntentID = &paymentIntentID
	}
	f.rows[id] = b
	return &b, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id, userID uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.rows[id]
	if !ok || b.UserID != userID || b.Status != entity.BookingStatusPending {
		return nil, nil
	}
	b.Status = entity.BookingStatusCanceled
	f.rows[id] = b
	return &b, nil
}

// fakeReviewRepo enforces one row per (user, venue) like the unique constraint.
type fakeReviewRepo struct {
	mu   sync.Mutex
	rows map[[2]uuid.UUID]entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{rows: map[[2]uuid.UUID]entity.Review{}}
}

func (f *fakeReviewRepo) FindByVenueID(_ context.Context, venueID uuid.UUID) ([]*entity.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*entity.Review{}
	for _, r := range f.rows {
		if r.VenueID == venueID {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) FindByUserAndVenue(_ context.Context, userID, venueID uuid.UUID) (*entity.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rows[[2]uuid.UUID{userID, venueID}]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeReviewRepo) Upsert(_ context.Context, review *entity.Review) (*entity.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := [2]uuid.UUID{review.UserID, review.VenueID}
	saved := *review
	if existing, ok := f.rows[key]; ok {
		saved.ID = existing.ID
		saved.CreatedAt = existing.CreatedAt
	}
	f.rows[key] = saved
	return &saved, nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, userID, venueID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := [2]uuid.UUID{userID, venueID}
	if _, ok := f.rows[key]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, key)
	return nil
}

func (f *fakeReviewRepo) StatsByVenue(_ context.Context, venueID uuid.UUID) (*entity.ReviewStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var stats entity.ReviewStats
	var sum int
	for _, r := range f.rows {
		if r.VenueID == venueID {
			stats.ReviewCount++
			sum += r.Rating
		}
	}
	if stats.ReviewCount > 0 {
		stats.AverageRating = float64(sum) / float64(stats.ReviewCount)
	}
	return &stats, nil
}

// mapCache is an in-memory cache.Cache.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
