package adaptor

import (
	"net/http"

	"whats-poppin/internal/dto/request"
	"whats-poppin/internal/usecase"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VenueHandler struct {
	service usecase.VenueService
	log     *zap.Logger
}

func NewVenueHandler(service usecase.VenueService, log *zap.Logger) *VenueHandler {
	return &VenueHandler{
		service: service,
		log:     log.With(zap.String("handler", "venue")),
	}
}

// ListVenues handles GET /api/venues?category= (public)
func (h *VenueHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		utils.ResponseBadRequest(w, "category is required", nil)
		return
	}

	venues, err := h.service.ListByCategory(r.Context(), category)
	if err != nil {
		handleServiceError(w, h.log, err, "list venues")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// Trending handles GET /api/venues/trending (public)
func (h *VenueHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 10)

	venues, err := h.service.Trending(r.Context(), limit)
	if err != nil {
		handleServiceError(w, h.log, err, "list trending venues")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// GetVenue handles GET /api/venues/{id} (public)
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	venue, err := h.service.GetVenue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get venue")
		return
	}

	utils.ResponseSuccess(w, "success", venue)
}

// SubmitHiddenGem handles POST /api/venues/hidden-gems (protected)
func (h *VenueHandler) SubmitHiddenGem(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	var req request.SubmitHiddenGemRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "submit hidden gem")
		return
	}

	venue, err := h.service.SubmitHiddenGem(r.Context(), identity, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "submit hidden gem")
		return
	}

	utils.ResponseCreated(w, "Hidden gem submitted", venue)
}

// CreateVenue handles POST /api/admin/venues (admin only)
func (h *VenueHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	var req request.CreateVenueRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "create venue")
		return
	}

	venue, err := h.service.CreateVenue(r.Context(), identity, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create venue")
		return
	}

	utils.ResponseCreated(w, "Venue created", venue)
}
