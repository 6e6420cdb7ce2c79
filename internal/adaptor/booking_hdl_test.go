package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"whats-poppin/internal/dto/request"
	"whats-poppin/internal/dto/response"
	"whats-poppin/internal/usecase"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) CreateCheckout(ctx context.Context, identity utils.Identity, origin string, req *request.CreateBookingPaymentRequest) (*response.CheckoutResponse, error) {
	args := m.Called(ctx, identity, origin, req)
	resp, _ := args.Get(0).(*response.CheckoutResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) VerifyPayment(ctx context.Context, req *request.VerifyBookingPaymentRequest) (*response.BookingStatusResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.BookingStatusResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) CancelBooking(ctx context.Context, identity utils.Identity, req *request.CancelBookingRequest) (*response.BookingStatusResponse, error) {
	args := m.Called(ctx, identity, req)
	resp, _ := args.Get(0).(*response.BookingStatusResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) GetUserBookings(ctx context.Context, identity utils.Identity, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	args := m.Called(ctx, identity, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.BookingResponse])
	return resp, args.Error(1)
}

func (m *mockBookingService) GetBooking(ctx context.Context, identity utils.Identity, bookingID string) (*response.BookingResponse, error) {
	args := m.Called(ctx, identity, bookingID)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

var testIdentity = utils.Identity{UserID: uuid.New(), Email: "diner@example.com", Role: "customer"}

func newBookingRouter(svc usecase.BookingService) http.Handler {
	h := NewBookingHandler(svc, zap.NewNop())

	// stands in for the auth middleware: requests carrying X-Test-User are authenticated
	withIdentity := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Test-User") != "" {
				r = r.WithContext(utils.SetIdentity(r.Context(), testIdentity))
			}
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewRouter()
	r.With(withIdentity).Post("/api/bookings/checkout", h.CreateCheckout)
	r.Post("/api/bookings/verify", h.VerifyPayment)
	r.With(withIdentity).Post("/api/bookings/cancel", h.CancelBooking)
	r.With(withIdentity).Get("/api/bookings/{id}", h.GetBooking)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("X-Test-User", "1")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const checkoutBody = `{"venueId":"%s","venueName":"The Blue Note","bookingDate":"2026-01-01","bookingTime":"19:00","partySize":4,"amountCents":2500}`

func TestBookingHandler_CreateCheckout(t *testing.T) {
	svc := &mockBookingService{}
	router := newBookingRouter(svc)
	venueID := uuid.NewString()
	bookingID := uuid.NewString()

	svc.On("CreateCheckout", mock.Anything, testIdentity, "", mock.MatchedBy(func(r *request.CreateBookingPaymentRequest) bool {
		return r.VenueID == venueID && r.PartySize == 4 && r.AmountCents == 2500
	})).Return(&response.CheckoutResponse{URL: "https://checkout.example/cs_1", BookingID: bookingID}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/bookings/checkout", fmt.Sprintf(checkoutBody, venueID), true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"url": "https://checkout.example/cs_1", "bookingId": bookingID}, decodeBody(t, rec))
}

func TestBookingHandler_CreateCheckout_Unauthenticated(t *testing.T) {
	svc := &mockBookingService{}
	router := newBookingRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/api/bookings/checkout", fmt.Sprintf(checkoutBody, uuid.NewString()), false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "error")
	svc.AssertNotCalled(t, "CreateCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_CreateCheckout_UnknownField(t *testing.T) {
	svc := &mockBookingService{}
	router := newBookingRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/api/bookings/checkout", `{"venueId":"x","seatCount":3}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "invalid request body")
	svc.AssertNotCalled(t, "CreateCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_CreateCheckout_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &usecase.ValidationError{Message: "amountCents must be 2500"}, http.StatusBadRequest},
		{"venue missing", fmt.Errorf("%w: venue", usecase.ErrNotFound), http.StatusNotFound},
		{"processor down", errors.New("create checkout session: processor offline"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockBookingService{}
			router := newBookingRouter(svc)
			svc.On("CreateCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := doJSON(t, router, http.MethodPost, "/api/bookings/checkout", fmt.Sprintf(checkoutBody, uuid.NewString()), true)

			assert.Equal(t, tc.code, rec.Code)
			body := decodeBody(t, rec)
			assert.Len(t, body, 1)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestBookingHandler_VerifyPayment_Unpaid(t *testing.T) {
	svc := &mockBookingService{}
	router := newBookingRouter(svc)
	bookingID := uuid.NewString()

	svc.On("VerifyPayment", mock.Anything, &request.VerifyBookingPaymentRequest{SessionID: "cs_1", BookingID: bookingID}).
		Return(&response.BookingStatusResponse{Success: false, Status: "unpaid"}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/bookings/verify",
		fmt.Sprintf(`{"sessionId":"cs_1","bookingId":"%s"}`, bookingID), false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": false, "status": "unpaid"}, decodeBody(t, rec))
}

func TestBookingHandler_VerifyPayment_InvalidState(t *testing.T) {
	svc := &mockBookingService{}
	router := newBookingRouter(svc)

	svc.On("VerifyPayment", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: booking is canceled", usecase.ErrInvalidState))

	rec := doJSON(t, router, http.MethodPost, "/api/bookings/verify",
		fmt.Sprintf(`{"sessionId":"cs_1","bookingId":"%s"}`, uuid.NewString()), false)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "canceled")
}

func TestBookingHandler_CancelBooking(t *testing.T) {
	svc := &mockBookingService{}
	router := newBookingRouter(svc)
	bookingID := uuid.NewString()

	svc.On("CancelBooking", mock.Anything, testIdentity, &request.CancelBookingRequest{BookingID: bookingID}).
		Return(&response.BookingStatusResponse{Success: true, Status: "canceled"}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/bookings/cancel", fmt.Sprintf(`{"bookingId":"%s"}`, bookingID), true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "status": "canceled"}, decodeBody(t, rec))
}

func TestBookingHandler_GetBooking_UsesEnvelope(t *testing.T) {
	svc := &mockBookingService{}
	router := newBookingRouter(svc)
	bookingID := uuid.NewString()

	svc.On("GetBooking", mock.Anything, testIdentity, bookingID).
		Return(nil, fmt.Errorf("%w: booking %s", usecase.ErrNotFound, bookingID))

	rec := doJSON(t, router, http.MethodGet, "/api/bookings/"+bookingID, "", true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["status"])
	assert.Contains(t, body["message"], "not found")
}
