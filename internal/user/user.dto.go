package user

import "ecoTrackAPI/internal/progression"

type GetOrCreateProfileRequest struct {
	UserID      string `json:"userId" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName,omitempty" validate:"max=60"`
	PhotoURL    string `json:"photoURL,omitempty" validate:"omitempty,url"`
}

type BadgesResponse struct {
	EarnedBadges      []progression.BadgeAward `json:"earnedBadges"`
	AllPossibleBadges []progression.Badge      `json:"allPossibleBadges"`
	Stats             progression.Stats        `json:"stats"`
}
