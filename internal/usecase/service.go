package usecase

import (
	"whats-poppin/internal/data/repository"
	"whats-poppin/pkg/cache"
	"whats-poppin/pkg/payment"
	"whats-poppin/pkg/queue"
	"whats-poppin/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Profile ProfileService
	Venue   VenueService
	Review  ReviewService
	Booking BookingService
	Visit   VisitService
}

// Deps are the optional outer collaborators. A nil Gateway disables
// checkout; a nil Publisher records visits synchronously.
type Deps struct {
	Gateway   payment.Gateway
	Cache     cache.Cache
	Publisher queue.Publisher
}

func NewService(repo *repository.Repository, config *utils.Config, deps Deps, log *zap.Logger) *Service {
	if deps.Cache == nil {
		deps.Cache = cache.New(nil, "", 0)
	}
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		Profile: NewProfileService(repo, log),
		Venue:   NewVenueService(repo, deps.Cache, log),
		Review:  NewReviewService(repo, deps.Cache, log),
		Booking: NewBookingService(repo, deps.Gateway, config, log),
		Visit:   NewVisitService(repo, deps.Publisher, deps.Cache, config.RabbitMQ.VisitQueue, log),
	}
}
