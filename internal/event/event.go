package event

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	Title               string    `json:"title" db:"title"`
	Description         string    `json:"description" db:"description"`
	Category            string    `json:"category,omitempty" db:"category"`
	EventDate           time.Time `json:"eventDate" db:"event_date"`
	Location            string    `json:"location" db:"location"`
	Organizer           string    `json:"organizer" db:"organizer"`
	MaxParticipants     int       `json:"maxParticipants" db:"max_participants"`
	CurrentParticipants int       `json:"currentParticipants" db:"current_participants"`
	Featured            bool      `json:"featured" db:"featured"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// IsFull reports whether registration has reached capacity.
func (e *Event) IsFull() bool {
	return e.CurrentParticipants >= e.MaxParticipants
}

type CreateEventRequest struct {
	Title           string    `json:"title" validate:"required,max=120"`
	Description     string    `json:"description" validate:"required"`
	Category        string    `json:"category,omitempty"`
	EventDate       time.Time `json:"eventDate" validate:"required"`
	Location        string    `json:"location" validate:"required"`
	Organizer       string    `json:"organizer" validate:"required,email"`
	MaxParticipants int       `json:"maxParticipants" validate:"required,min=1"`
	Featured        bool      `json:"featured,omitempty"`
}
