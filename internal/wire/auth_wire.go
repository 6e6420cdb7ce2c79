package wire

import (
	"net/http"

	"whats-poppin/internal/adaptor"
	"whats-poppin/internal/data/repository"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	limiter func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(limiter)

		r.Post("/api/auth/register", authHandler.Register)
		r.Post("/api/auth/login", authHandler.Login)
	})

	r.With(authenticated(repo, config, log)).Post("/api/auth/logout", authHandler.Logout)
}
