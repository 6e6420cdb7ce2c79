package response

import (
	"math"
	"time"

	"whats-poppin/internal/data/entity"
)

type VenueResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Category      entity.VenueCategory `json:"category"`
	Address       *string              `json:"address,omitempty"`
	Description   *string              `json:"description,omitempty"`
	Latitude      float64              `json:"latitude"`
	Longitude     float64              `json:"longitude"`
	ImageURL      *string              `json:"image_url,omitempty"`
	IsHiddenGem   bool                 `json:"is_hidden_gem"`
	SubmittedBy   *string              `json:"submitted_by,omitempty"`
	TrafficCount  int64                `json:"traffic_count"`
	ReviewCount   int64                `json:"review_count"`
	AverageRating float64              `json:"average_rating"`
	CreatedAt     time.Time            `json:"created_at"`
}

func VenueToResponse(v *entity.Venue) VenueResponse {
	resp := VenueResponse{
		ID:           v.ID.String(),
		Name:         v.Name,
		Category:     v.Category,
		Address:      v.Address,
		Description:  v.Description,
		Latitude:     v.Latitude,
		Longitude:    v.Longitude,
		ImageURL:     v.ImageURL,
		IsHiddenGem:  v.IsHiddenGem,
		TrafficCount: v.TrafficCount,
		CreatedAt:    v.CreatedAt,
	}
	if v.SubmittedBy != nil {
		s := v.SubmittedBy.String()
		resp.SubmittedBy = &s
	}
	return resp
}

func VenueWithStatsToResponse(v *entity.VenueWithStats) VenueResponse {
	resp := VenueToResponse(&v.Venue)
	resp.ReviewCount = v.ReviewCount
	resp.AverageRating = math.Round(v.AverageRating*10) / 10
	return resp
}
