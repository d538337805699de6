package challenge

import (
	"time"

	"github.com/google/uuid"
)

type Challenge struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Category     string    `json:"category" db:"category"`
	Description  string    `json:"description" db:"description"`
	DurationDays int       `json:"durationDays" db:"duration_days"`
	Target       string    `json:"target" db:"target"`
	Points       *int      `json:"points,omitempty" db:"points"`
	Participants int       `json:"participants" db:"participants"`
	ImpactMetric string    `json:"impactMetric" db:"impact_metric"`
	CreatedBy    string    `json:"createdBy" db:"created_by"`
	StartDate    time.Time `json:"startDate" db:"start_date"`
	EndDate      time.Time `json:"endDate" db:"end_date"`
	ImageURL     string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Categories the catalog accepts, mirrored in the create/update validators.
const CategoryValues = "Energy Conservation Water Conservation Waste Reduction Sustainable Transport Green Living Other"

type CreateChallengeRequest struct {
	Title        string    `json:"title" validate:"required,max=120"`
	Category     string    `json:"category" validate:"required"`
	Description  string    `json:"description" validate:"required"`
	DurationDays int       `json:"durationDays" validate:"required,min=1"`
	Target       string    `json:"target" validate:"required"`
	Points       *int      `json:"points,omitempty" validate:"omitempty,min=0"`
	ImpactMetric string    `json:"impactMetric" validate:"required"`
	StartDate    time.Time `json:"startDate" validate:"required"`
	EndDate      time.Time `json:"endDate" validate:"required"`
	ImageURL     string    `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

type UpdateChallengeRequest struct {
	Title        *string    `json:"title,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Target       *string    `json:"target,omitempty"`
	Points       *int       `json:"points,omitempty" validate:"omitempty,min=0"`
	ImpactMetric *string    `json:"impactMetric,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	ImageURL     *string    `json:"imageUrl,omitempty"`
}

// ListFilter carries the catalog query parameters. Zero values mean "no
// constraint"; Page is 1-based.
type ListFilter struct {
	Categories      []string
	Search          string
	StartAfter      *time.Time
	StartBefore     *time.Time
	MinParticipants *int
	MaxParticipants *int
	Page            int
	Limit           int
}

type Page struct {
	Data  []*Challenge `json:"data"`
	Count int          `json:"count"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Pages int          `json:"pages"`
}
