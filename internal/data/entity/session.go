package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session backs one issued access token; Token is the token's jti claim.
// Revoking the row invalidates the token before it expires.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
