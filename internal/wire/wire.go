package wire

import (
	"net/http"

	"whats-poppin/internal/adaptor"
	"whats-poppin/internal/data/repository"
	"whats-poppin/internal/usecase"
	"whats-poppin/pkg/middleware"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the router and the services background workers need.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes. rdb may be nil, which turns
// rate limiting off.
func Wiring(repo *repository.Repository, config *utils.Config, deps usecase.Deps, rdb *redis.Client, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, deps, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, rdb, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	rdb *redis.Client,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	limiter := middleware.RateLimit(config.RateLimit, rdb, logger)

	wireAuth(r, handler.Auth, repo, config, limiter, logger)
	wireProfile(r, handler.Profile, repo, config, logger)
	wireVenue(r, handler.Venue, repo, config, logger)
	wireReview(r, handler.Review, repo, config, logger)
	wireVisit(r, handler.Visit, limiter)
	wireBooking(r, handler.Booking, repo, config, rdb, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

func authenticated(repo *repository.Repository, config *utils.Config, log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.AuthSession(repo.Session, config.JWT.Secret, log)
}
