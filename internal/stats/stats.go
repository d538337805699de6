package stats

// LiveStats powers the public homepage counters.
type LiveStats struct {
	ActiveChallenges    int `json:"activeChallenges"`
	TotalParticipants   int `json:"totalParticipants"`
	CompletedChallenges int `json:"completedChallenges"`
	TotalTips           int `json:"totalTips"`
	UpcomingEvents      int `json:"upcomingEvents"`
}

// UserStats summarizes one user's membership activity.
type UserStats struct {
	TotalJoined         int `json:"totalJoined"`
	ActiveChallenges    int `json:"activeChallenges"`
	CompletedChallenges int `json:"completedChallenges"`
	TotalPoints         int `json:"totalPoints"`
}
