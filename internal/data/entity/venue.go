package entity

import (
	"github.com/google/uuid"
)

type VenueCategory string

const (
	CategoryBarsNightlife VenueCategory = "bars_nightlife"
	CategoryComedy        VenueCategory = "comedy"
	CategoryFoodDining    VenueCategory = "food_dining"
	CategoryPlacesToStay  VenueCategory = "places_to_stay"
	CategoryLiveMusic     VenueCategory = "live_music"
	CategoryEvents        VenueCategory = "events"
	CategoryHiddenGems    VenueCategory = "hidden_gems"
)

// Categories is the closed set stored in the venue_category enum, in display order.
var Categories = []VenueCategory{
	CategoryBarsNightlife,
	CategoryComedy,
	CategoryFoodDining,
	CategoryPlacesToStay,
	CategoryLiveMusic,
	CategoryEvents,
	CategoryHiddenGems,
}

func (c VenueCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

type Venue struct {
	BaseNoDelete
	Name         string        `db:"name"`
	Category     VenueCategory `db:"category"`
	Address      *string       `db:"address"`
	Description  *string       `db:"description"`
	Latitude     float64       `db:"latitude"`
	Longitude    float64       `db:"longitude"`
	ImageURL     *string       `db:"image_url"`
	IsHiddenGem  bool          `db:"is_hidden_gem"`
	SubmittedBy  *uuid.UUID    `db:"submitted_by"`
	TrafficCount int64         `db:"traffic_count"`
}

// VenueWithStats is a venue joined with its review aggregate.
type VenueWithStats struct {
	Venue
	ReviewCount   int64
	AverageRating float64
}
