package response

import (
	"time"

	"whats-poppin/internal/data/entity"
)

type CheckoutResponse struct {
	URL       string `json:"url"`
	BookingID string `json:"bookingId"`
}

// BookingStatusResponse answers verify and cancel. Success is false for a
// normal unpaid outcome, which is not an error.
type BookingStatusResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

type BookingResponse struct {
	ID              string               `json:"id"`
	VenueID         string               `json:"venue_id"`
	UserID          string               `json:"user_id"`
	BookingDate     string               `json:"booking_date"`
	BookingTime     string               `json:"booking_time"`
	PartySize       int                  `json:"party_size"`
	AmountCents     int64                `json:"amount_cents"`
	Status          entity.BookingStatus `json:"status"`
	PaymentIntentID *string              `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		VenueID:         b.VenueID.String(),
		UserID:          b.UserID.String(),
		BookingDate:     b.BookingDate.Format("2006-01-02"),
		BookingTime:     b.BookingTime,
		PartySize:       b.PartySize,
		AmountCents:     b.AmountCents,
		Status:          b.Status,
		PaymentIntentID: b.PaymentIntentID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
