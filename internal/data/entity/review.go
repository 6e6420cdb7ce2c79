package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseNoDelete
	VenueID uuid.UUID `db:"venue_id"`
	UserID  uuid.UUID `db:"user_id"`
	Rating  int       `db:"rating"` // 1-5
	Comment *string   `db:"comment"`
}

type ReviewStats struct {
	ReviewCount   int64
	AverageRating float64
}
