package user

import (
	"time"

	"github.com/simp-lee/soundmint/internal/domain"
)

// UpdateProfileRequest represents the editable profile fields.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"max=100"`
	Bio         string `json:"bio" binding:"max=1000"`
	CountryID   *uint  `json:"countryId" binding:"omitempty,min=1"`
}

// PublicUser is the view of an account shown to other users.
type PublicUser struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Role      domain.Role     `json:"role"`
	Profile   *domain.Profile `json:"profile,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toPublic(u *domain.User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role,
		Profile:   u.Profile,
		CreatedAt: u.CreatedAt,
	}
}
