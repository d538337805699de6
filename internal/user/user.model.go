package user

import (
	"time"

	"github.com/google/uuid"

	"ecoTrackAPI/internal/progression"
)

type User struct {
	ID                       uuid.UUID                `json:"id"`
	UserID                   string                   `json:"userId"`
	Email                    string                   `json:"email"`
	DisplayName              string                   `json:"displayName"`
	PhotoURL                 string                   `json:"photoURL,omitempty"`
	TotalPoints              int                      `json:"totalPoints"`
	TotalChallengesJoined    int                      `json:"totalChallengesJoined"`
	TotalChallengesCompleted int                      `json:"totalChallengesCompleted"`
	CurrentStreak            int                      `json:"currentStreak"`
	LongestStreak            int                      `json:"longestStreak"`
	LastActivityDate         time.Time                `json:"lastActivityDate"`
	Rank                     string                   `json:"rank"`
	Badges                   []progression.BadgeAward `json:"badges"`
	CreatedAt                time.Time                `json:"createdAt"`
	UpdatedAt                time.Time                `json:"updatedAt"`
}

// ProgressionState extracts the slice of the record the progression engine
// transitions operate on.
func (u *User) ProgressionState() progression.UserState {
	return progression.UserState{
		TotalPoints:              u.TotalPoints,
		TotalChallengesJoined:    u.TotalChallengesJoined,
		TotalChallengesCompleted: u.TotalChallengesCompleted,
		CurrentStreak:            u.CurrentStreak,
		LongestStreak:            u.LongestStreak,
		LastActivityDate:         u.LastActivityDate,
		Rank:                     u.Rank,
		Badges:                   u.Badges,
	}
}
