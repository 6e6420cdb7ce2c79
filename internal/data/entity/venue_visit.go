package entity

import (
	"time"

	"github.com/google/uuid"
)

type VenueVisit struct {
	ID            uuid.UUID `db:"id"`
	VenueID       uuid.UUID `db:"venue_id"`
	UserLatitude  *float64  `db:"user_latitude"`
	UserLongitude *float64  `db:"user_longitude"`
	VisitedAt     time.Time `db:"visited_at"`
}
