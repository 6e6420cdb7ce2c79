package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"whats-poppin/internal/data/entity"
	"whats-poppin/internal/data/repository"
	"whats-poppin/internal/dto/request"
	"whats-poppin/internal/dto/response"
	"whats-poppin/pkg/payment"
	"whats-poppin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	metaBookingID = "booking_id"
	metaVenueID   = "venue_id"
	metaUserID    = "user_id"
)

type BookingService interface {
	// CreateCheckout records a pending booking and opens a hosted checkout for it.
	// origin is where the processor sends the browser back to.
	CreateCheckout(ctx context.Context, identity utils.Identity, origin string, req *request.CreateBookingPaymentRequest) (*response.CheckoutResponse, error)
	VerifyPayment(ctx context.Context, req *request.VerifyBookingPaymentRequest) (*response.BookingStatusResponse, error)
	CancelBooking(ctx context.Context, identity utils.Identity, req *request.CancelBookingRequest) (*response.BookingStatusResponse, error)

	GetUserBookings(ctx context.Context, identity utils.Identity, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBooking(ctx context.Context, identity utils.Identity, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo    *repository.Repository
	gateway payment.Gateway
	config  *utils.Config
	log     *zap.Logger
}

func NewBookingService(repo *repository.Repository, gateway payment.Gateway, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		gateway: gateway,
		config:  config,
		log:     log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateCheckout(ctx context.Context, identity utils.Identity, origin string, req *request.CreateBookingPaymentRequest) (*response.CheckoutResponse, error) {
	log := s.log.With(zap.String("op", "create-booking-payment"))

	if err := validate(req); err != nil {
		log.Warn("Invalid checkout request", zap.String("step", "validate"), zap.Error(err))
		return nil, err
	}

	if identity.UserID == uuid.Nil || identity.Email == "" {
		return nil, fmt.Errorf("%w: user not authenticated or email not available", ErrUnauthorized)
	}
	log = log.With(zap.String("user_id", identity.UserID.String()))

	fee := s.config.App.BookingFeeCents
	if req.AmountCents != fee {
		log.Warn("Amount does not match booking fee",
			zap.String("step", "validate"),
			zap.Int64("amount_cents", req.AmountCents),
			zap.Int64("fee_cents", fee),
		)
		return nil, invalid("amountCents must be %d", fee)
	}

	if s.gateway == nil {
		return nil, ErrPaymentUnavailable
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, invalid("invalid venueId")
	}
	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return nil, invalid("invalid bookingDate")
	}
	clock, err := utils.ParseClock(req.BookingTime)
	if err != nil {
		return nil, invalid("invalid bookingTime")
	}

	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("load venue: %w", err)
	}
	if venue == nil {
		return nil, fmt.Errorf("%w: venue %s", ErrNotFound, req.VenueID)
	}

	venueName := req.VenueName
	if venueName == "" {
		venueName = venue.Name
	}
	partySize := req.PartySize
	if partySize == 0 {
		partySize = entity.DefaultPartySize
	}

	customerID, err := s.resolveCustomer(ctx, identity)
	if err != nil {
		log.Error("Failed to resolve payment customer", zap.String("step", "customer"), zap.Error(err))
		return nil, fmt.Errorf("resolve customer: %w", err)
	}
	log.Info("Payment customer resolved", zap.String("step", "customer"), zap.String("customer_id", customerID))

	now := time.Now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VenueID:     venueID,
		UserID:      identity.UserID,
		BookingDate: bookingDate,
		BookingTime: clock.Format("15:04:05"),
		PartySize:   partySize,
		AmountCents: fee,
		Status:      entity.BookingStatusPending,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		log.Error("Failed to create booking", zap.String("step", "insert"), zap.Error(err))
		return nil, fmt.Errorf("create booking: %w", err)
	}
	log = log.With(zap.String("booking_id", booking.ID.String()))
	log.Info("Pending booking created", zap.String("step", "insert"))

	bookingID := booking.ID.String()
	base := s.returnBase(origin)
	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutInput{
		CustomerID:  customerID,
		ProductName: "Booking at " + venueName,
		Description: fmt.Sprintf("%s at %s - Party of %d", req.BookingDate, req.BookingTime, partySize),
		AmountCents: fee,
		SuccessURL: fmt.Sprintf("%s/booking-success?booking_id=%s&session_id=%s",
			base, url.QueryEscape(bookingID), payment.CheckoutSessionIDPlaceholder),
		CancelURL: fmt.Sprintf("%s/booking-canceled?booking_id=%s", base, url.QueryEscape(bookingID)),
		Metadata: map[string]string{
			metaBookingID: bookingID,
			metaVenueID:   venueID.String(),
			metaUserID:    identity.UserID.String(),
		},
	})
	if err != nil {
		// the pending row stays behind for auditing
		log.Error("Failed to create checkout session", zap.String("step", "checkout"), zap.Error(err))
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	log.Info("Checkout session created", zap.String("step", "checkout"), zap.String("session_id", session.ID))

	return &response.CheckoutResponse{
		URL:       session.URL,
		BookingID: bookingID,
	}, nil
}

// resolveCustomer prefers the id stored on the profile and falls back to an
// email lookup, then to creating a customer. The result is written back to
// the profile; failing to store it does not fail the checkout.
func (s *bookingService) resolveCustomer(ctx context.Context, identity utils.Identity) (string, error) {
	profile, err := s.repo.Profile.FindByUserID(ctx, identity.UserID)
	if err != nil {
		return "", err
	}
	if profile != nil && profile.StripeCustomerID != nil && *profile.StripeCustomerID != "" {
		return *profile.StripeCustomerID, nil
	}

	customerID, err := s.gateway.FindCustomerByEmail(ctx, identity.Email)
	if err != nil {
		return "", err
	}
	if customerID == "" {
		customerID, err = s.gateway.CreateCustomer(ctx, identity.Email, map[string]string{
			metaUserID: identity.UserID.String(),
		})
		if err != nil {
			return "", err
		}
	}

	if err := s.repo.Profile.SetStripeCustomerID(ctx, identity.UserID, customerID); err != nil {
		s.log.Warn("Failed to store customer id on profile",
			zap.Error(err),
			zap.String("user_id", identity.UserID.String()),
		)
	}

	return customerID, nil
}

func (s *bookingService) returnBase(origin string) string {
	if u, err := url.Parse(origin); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host
	}
	return s.config.App.PublicURL
}

func (s *bookingService) VerifyPayment(ctx context.Context, req *request.VerifyBookingPaymentRequest) (*response.BookingStatusResponse, error) {
	log := s.log.With(zap.String("op", "verify-booking-payment"))

	if err := validate(req); err != nil {
		log.Warn("Invalid verify request", zap.String("step", "validate"), zap.Error(err))
		return nil, err
	}
	if s.gateway == nil {
		return nil, ErrPaymentUnavailable
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, invalid("invalid bookingId")
	}
	log = log.With(zap.String("booking_id", req.BookingID), zap.String("session_id", req.SessionID))

	session, err := s.gateway.GetCheckoutSession(ctx, req.SessionID)
	if err != nil {
		log.Error("Failed to retrieve checkout session", zap.String("step", "retrieve"), zap.Error(err))
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}

	if owner, ok := session.Metadata[metaBookingID]; ok && owner != req.BookingID {
		log.Warn("Checkout session belongs to another booking",
			zap.String("step", "retrieve"),
			zap.String("session_booking_id", owner),
		)
		return nil, invalid("checkout session does not match booking")
	}

	if !session.Paid() {
		log.Info("Payment not completed", zap.String("step", "status"), zap.String("payment_status", session.PaymentStatus))
		return &response.BookingStatusResponse{Success: false, Status: session.PaymentStatus}, nil
	}

	booking, err := s.repo.Booking.Confirm(ctx, bookingID, session.PaymentIntentID)
	if err != nil {
		log.Error("Failed to confirm booking", zap.String("step", "confirm"), zap.Error(err))
		return nil, fmt.Errorf("confirm booking: %w", err)
	}
	if booking == nil {
		existing, err := s.repo.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return nil, fmt.Errorf("load booking: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, req.BookingID)
		}
		log.Warn("Paid session for a booking that cannot be confirmed",
			zap.String("step", "confirm"),
			zap.String("status", string(existing.Status)),
		)
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, existing.Status)
	}

	log.Info("Booking confirmed", zap.String("step", "confirm"))

	return &response.BookingStatusResponse{
		Success: true,
		Status:  string(entity.BookingStatusConfirmed),
	}, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, identity utils.Identity, req *request.CancelBookingRequest) (*response.BookingStatusResponse, error) {
	log := s.log.With(zap.String("op", "cancel-booking"))

	if err := validate(req); err != nil {
		return nil, err
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, invalid("invalid bookingId")
	}
	log = log.With(zap.String("booking_id", req.BookingID), zap.String("user_id", identity.UserID.String()))

	booking, err := s.repo.Booking.Cancel(ctx, bookingID, identity.UserID)
	if err != nil {
		log.Error("Failed to cancel booking", zap.String("step", "cancel"), zap.Error(err))
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	if booking != nil {
		return &response.BookingStatusResponse{Success: true, Status: string(booking.Status)}, nil
	}

	// nothing was pending; report where the booking actually stands
	existing, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if existing == nil || existing.UserID != identity.UserID {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, req.BookingID)
	}

	log.Info("Cancel left booking unchanged", zap.String("step", "cancel"), zap.String("status", string(existing.Status)))

	return &response.BookingStatusResponse{
		Success: existing.Status == entity.BookingStatusCanceled,
		Status:  string(existing.Status),
	}, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, identity utils.Identity, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, identity.UserID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, response.BookingToResponse(b))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *bookingService) GetBooking(ctx context.Context, identity utils.Identity, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, invalid("invalid booking ID")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil || (booking.UserID != identity.UserID && !identity.IsAdmin()) {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}
