package entity

import (
	"github.com/google/uuid"
)

type Profile struct {
	BaseNoDelete
	UserID           uuid.UUID `db:"user_id"`
	DisplayName      *string   `db:"display_name"`
	AvatarURL        *string   `db:"avatar_url"`
	StripeCustomerID *string   `db:"stripe_customer_id"`
}
