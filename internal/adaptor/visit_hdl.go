package adaptor

import (
	"net/http"

	"whats-poppin/internal/dto/request"
	"whats-poppin/internal/usecase"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VisitHandler struct {
	service usecase.VisitService
	log     *zap.Logger
}

func NewVisitHandler(service usecase.VisitService, log *zap.Logger) *VisitHandler {
	return &VisitHandler{
		service: service,
		log:     log.With(zap.String("handler", "visit")),
	}
}

// RecordVisit handles POST /api/venues/{id}/visits (public). The body is optional.
func (h *VisitHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var req request.RecordVisitRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, h.log, err, "record visit")
			return
		}
	}

	if err := h.service.RecordVisit(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(w, h.log, err, "record visit")
		return
	}

	utils.ResponseAccepted(w, "Visit recorded")
}
