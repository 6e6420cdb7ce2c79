package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCanceled  BookingStatus = "canceled"
)

const DefaultPartySize = 2

type Booking struct {
	BaseNoDelete
	VenueID         uuid.UUID     `db:"venue_id"`
	UserID          uuid.UUID     `db:"user_id"`
	BookingDate     time.Time     `db:"booking_date"`
	BookingTime     string        `db:"booking_time"` // HH:MM:SS
	PartySize       int           `db:"party_size"`
	AmountCents     int64         `db:"amount_cents"`
	Status          BookingStatus `db:"status"`
	PaymentIntentID *string       `db:"stripe_payment_intent_id"`
}
