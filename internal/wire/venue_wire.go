package wire

import (
	"whats-poppin/internal/adaptor"
	"whats-poppin/internal/data/repository"
	"whats-poppin/pkg/middleware"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireVenue(
	r chi.Router,
	venueHandler *adaptor.VenueHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/venues", venueHandler.ListVenues)
	r.Get("/api/venues/trending", venueHandler.Trending)
	r.Get("/api/venues/{id}", venueHandler.GetVenue)

	// ==================== PROTECTED ROUTES ====================
	r.With(authenticated(repo, config, log)).Post("/api/venues/hidden-gems", venueHandler.SubmitHiddenGem)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/venues", func(r chi.Router) {
		r.Use(authenticated(repo, config, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/", venueHandler.CreateVenue)
	})
}
