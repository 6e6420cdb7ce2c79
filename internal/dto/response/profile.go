package response

import (
	"time"

	"whats-poppin/internal/data/entity"
)

type ProfileResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ProfileToResponse(p *entity.Profile, email string) ProfileResponse {
	return ProfileResponse{
		UserID:      p.UserID.String(),
		Email:       email,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		UpdatedAt:   p.UpdatedAt,
	}
}
