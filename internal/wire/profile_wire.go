package wire

import (
	"whats-poppin/internal/adaptor"
	"whats-poppin/internal/data/repository"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireProfile(
	r chi.Router,
	profileHandler *adaptor.ProfileHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, config, log))

		r.Get("/api/user/profile", profileHandler.GetProfile)
		r.Put("/api/user/profile", profileHandler.UpdateProfile)
	})
}
