package membership

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

type DayStatus string

const (
	DayCompleted  DayStatus = "completed"
	DayInProgress DayStatus = "in-progress"
	DayMissed     DayStatus = "missed"
)

func (d DayStatus) Valid() bool {
	switch d {
	case DayCompleted, DayInProgress, DayMissed:
		return true
	}
	return false
}

type ProgressEntry struct {
	ID           uuid.UUID `json:"id" db:"id"`
	MembershipID uuid.UUID `json:"membership_id" db:"membership_id"`
	Date         time.Time `json:"date" db:"entry_date"`
	DayStatus    DayStatus `json:"day_status" db:"day_status"`
	Note         string    `json:"note,omitempty" db:"note"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Membership links one user to one challenge they joined. The challenge_*
// fields are a snapshot taken at join time and are never refreshed, even if
// the source challenge changes later.
type Membership struct {
	ID                    uuid.UUID       `json:"id" db:"id"`
	UserID                string          `json:"user_id" db:"user_id"`
	UserEmail             string          `json:"user_email" db:"user_email"`
	UserName              string          `json:"user_name" db:"user_name"`
	ChallengeID           uuid.UUID       `json:"challenge_id" db:"challenge_id"`
	ChallengeTitle        string          `json:"challenge_title" db:"challenge_title"`
	ChallengeCategory     string          `json:"challenge_category" db:"challenge_category"`
	ChallengePoints       *int            `json:"challenge_points,omitempty" db:"challenge_points"`
	ChallengeDurationDays int             `json:"challenge_duration_days" db:"challenge_duration_days"`
	Status                Status          `json:"status" db:"status"`
	ProgressEntries       []ProgressEntry `json:"progress_entries,omitempty"`
	ProgressPercentage    int             `json:"progress_percentage" db:"progress_percentage"`
	PointsEarned          int             `json:"points_earned" db:"points_earned"`
	TotalUpdates          int             `json:"total_updates" db:"total_updates"`
	DaysActive            int             `json:"days_active" db:"days_active"`
	StartDate             time.Time       `json:"start_date" db:"start_date"`
	CompletedDate         *time.Time      `json:"completed_date,omitempty" db:"completed_date"`
	JoinedDate            time.Time       `json:"joined_date" db:"joined_date"`
	LastUpdated           time.Time       `json:"last_updated" db:"last_updated"`
}

type JoinChallengeRequest struct {
	ChallengeID string `json:"challengeId" validate:"required,uuid"`
}

type RecordProgressRequest struct {
	DayStatus DayStatus `json:"dayStatus" validate:"required,oneof=completed in-progress missed"`
	Note      string    `json:"note,omitempty" validate:"max=500"`
}
