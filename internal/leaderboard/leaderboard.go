package leaderboard

import "ecoTrackAPI/internal/progression"

type Entry struct {
	Position                 int     `json:"position"`
	UserID                   string  `json:"userId" db:"user_id"`
	DisplayName              string  `json:"displayName" db:"display_name"`
	PhotoURL                 *string `json:"photoURL,omitempty" db:"photo_url"`
	TotalPoints              int     `json:"totalPoints" db:"total_points"`
	TotalChallengesCompleted int     `json:"totalChallengesCompleted" db:"total_challenges_completed"`
	TotalChallengesJoined    int     `json:"totalChallengesJoined" db:"total_challenges_joined"`
	CurrentStreak            int     `json:"currentStreak" db:"current_streak"`
	Rank                     string  `json:"rank" db:"rank"`
	BadgeCount               int     `json:"badgeCount"`
	ImpactScore              float64 `json:"impactScore"`
}

type Leaderboard struct {
	Entries []*Entry `json:"data"`
	Type    string   `json:"type"`
	Count   int      `json:"count"`
}

// UserRank is one user's standing relative to everyone else.
type UserRank struct {
	Position      int                      `json:"position"`
	TotalUsers    int                      `json:"totalUsers"`
	Percentile    int                      `json:"percentile"`
	TotalPoints   int                      `json:"totalPoints"`
	Rank          string                   `json:"rank"`
	Badges        []progression.BadgeAward `json:"badges"`
	CurrentStreak int                      `json:"currentStreak"`
	LongestStreak int                      `json:"longestStreak"`
}
