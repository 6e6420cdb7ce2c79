package adaptor

import (
	"net/http"

	"whats-poppin/internal/dto/request"
	"whats-poppin/internal/usecase"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// GetVenueReviews handles GET /api/venues/{id}/reviews (public)
func (h *ReviewHandler) GetVenueReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetVenueReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get venue reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetVenueReviewStats handles GET /api/venues/{id}/review-stats (public)
func (h *ReviewHandler) GetVenueReviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetVenueReviewStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get review stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// GetMyReview handles GET /api/venues/{id}/reviews/me (protected)
func (h *ReviewHandler) GetMyReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	review, err := h.service.GetMyReview(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get own review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// UpsertMyReview handles PUT /api/venues/{id}/reviews/me (protected)
func (h *ReviewHandler) UpsertMyReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	var req request.UpsertReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "save review")
		return
	}

	review, err := h.service.UpsertMyReview(r.Context(), identity, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "save review")
		return
	}

	utils.ResponseSuccess(w, "Review saved", review)
}

// DeleteMyReview handles DELETE /api/venues/{id}/reviews/me (protected)
func (h *ReviewHandler) DeleteMyReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrFail(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteMyReview(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted", nil)
}
