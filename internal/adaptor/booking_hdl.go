package adaptor

import (
	"fmt"
	"net/http"

	"whats-poppin/internal/dto/request"
	"whats-poppin/internal/usecase"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateCheckout handles POST /api/bookings/checkout (protected)
func (h *BookingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "User not authenticated or email not available")
		return
	}

	var req request.CreateBookingPaymentRequest
	if err := decodeStrict(r, &req); err != nil {
		handleFlatError(w, h.log, err, "create booking payment")
		return
	}

	resp, err := h.service.CreateCheckout(r.Context(), identity, r.Header.Get("Origin"), &req)
	if err != nil {
		handleFlatError(w, h.log, err, "create booking payment")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// VerifyPayment handles POST /api/bookings/verify (public)
func (h *BookingHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyBookingPaymentRequest
	if err := decodeStrict(r, &req); err != nil {
		handleFlatError(w, h.log, err, "verify booking payment")
		return
	}

	resp, err := h.service.VerifyPayment(r.Context(), &req)
	if err != nil {
		handleFlatError(w, h.log, err, "verify booking payment")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// CancelBooking handles POST /api/bookings/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req request.CancelBookingRequest
	if err := decodeStrict(r, &req); err != nil {
		handleFlatError(w, h.log, err, "cancel booking")
		return
	}

	resp, err := h.service.CancelBooking(r.Context(), identity, &req)
	if err != nil {
		handleFlatError(w, h.log, err, "cancel booking")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), identity, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	bookingID := chi.URLParam(r, "id")
	booking, err := h.service.GetBooking(r.Context(), identity, bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, fmt.Sprintf("get booking %s", bookingID))
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}
