package wire

import (
	"whats-poppin/internal/adaptor"
	"whats-poppin/internal/data/repository"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Get("/api/venues/{id}/reviews", reviewHandler.GetVenueReviews)
	r.Get("/api/venues/{id}/review-stats", reviewHandler.GetVenueReviewStats)

	// one review per user per venue, addressed as "me"
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, config, log))

		r.Get("/api/venues/{id}/reviews/me", reviewHandler.GetMyReview)
		r.Put("/api/venues/{id}/reviews/me", reviewHandler.UpsertMyReview)
		r.Delete("/api/venues/{id}/reviews/me", reviewHandler.DeleteMyReview)
	})
}
