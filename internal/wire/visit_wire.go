package wire

import (
	"net/http"

	"whats-poppin/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireVisit(r chi.Router, visitHandler *adaptor.VisitHandler, limiter func(http.Handler) http.Handler) {
	r.With(limiter).Post("/api/venues/{id}/visits", visitHandler.RecordVisit)
}
