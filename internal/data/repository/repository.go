package repository

import (
	"whats-poppin/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Profile ProfileRepository
	Venue   VenueRepository
	Review  ReviewRepository
	Booking BookingRepository
	Visit   VisitRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Profile: NewProfileRepository(db, log),
		Venue:   NewVenueRepository(db, log),
		Review:  NewReviewRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Visit:   NewVisitRepository(db, log),
	}
}
