package request

// CreateBookingPaymentRequest is the checkout body. Field names follow the
// browser client, which posts camelCase.
type CreateBookingPaymentRequest struct {
	VenueID     string `json:"venueId" validate:"required,uuid"`
	VenueName   string `json:"venueName" validate:"max=200"`
	BookingDate string `json:"bookingDate" validate:"required,datetime=2006-01-02"`
	BookingTime string `json:"bookingTime" validate:"required,clock"`
	PartySize   int    `json:"partySize" validate:"gte=0,lte=20"`
	AmountCents int64  `json:"amountCents" validate:"required,gt=0"`
}

type VerifyBookingPaymentRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=255"`
	BookingID string `json:"bookingId" validate:"required,uuid"`
}

type CancelBookingRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
}
