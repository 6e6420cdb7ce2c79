package wire

import (
	"whats-poppin/internal/adaptor"
	"whats-poppin/internal/data/repository"
	"whats-poppin/pkg/middleware"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	rdb *redis.Client,
	log *zap.Logger,
) {
	// the payment endpoints answer auth and rate limit failures as {"error": ...} too
	flatAuth := middleware.AuthSessionWith(repo.Session, config.JWT.Secret, log, utils.WriteError)
	limiter := middleware.RateLimitWith(config.RateLimit, rdb, log, utils.WriteError)

	// ==================== PAYMENT ROUTES ====================
	r.With(flatAuth, limiter).Post("/api/bookings/checkout", bookingHandler.CreateCheckout)
	r.With(limiter).Post("/api/bookings/verify", bookingHandler.VerifyPayment)
	r.With(flatAuth).Post("/api/bookings/cancel", bookingHandler.CancelBooking)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, config, log))

		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
	})
}
