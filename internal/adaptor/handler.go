package adaptor

import (
	"whats-poppin/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Venue   *VenueHandler
	Review  *ReviewHandler
	Booking *BookingHandler
	Visit   *VisitHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Profile: NewProfileHandler(service.Profile, log),
		Venue:   NewVenueHandler(service.Venue, log),
		Review:  NewReviewHandler(service.Review, log),
		Booking: NewBookingHandler(service.Booking, log),
		Visit:   NewVisitHandler(service.Visit, log),
	}
}
