package progression

// CriteriaField names the single counter a badge threshold is checked
// against. Badge criteria are data, not code: every predicate is
// "field >= threshold" evaluated by Evaluate.
type CriteriaField string

const (
	CriteriaChallengesJoined    CriteriaField = "challenges_joined"
	CriteriaChallengesCompleted CriteriaField = "challenges_completed"
	CriteriaTotalPoints         CriteriaField = "total_points"
	CriteriaCurrentStreak       CriteriaField = "current_streak"
)

type Badge struct {
	ID          string        `json:"badgeId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Field       CriteriaField `json:"criteria_field"`
	Threshold   int           `json:"criteria_value"`
}

// Stats is the counter snapshot badge criteria are evaluated against.
type Stats struct {
	TotalPoints              int `json:"totalPoints"`
	TotalChallengesJoined    int `json:"totalChallengesJoined"`
	TotalChallengesCompleted int `json:"totalChallengesCompleted"`
	CurrentStreak            int `json:"currentStreak"`
}

func (s Stats) value(f CriteriaField) int {
	switch f {
	case CriteriaChallengesJoined:
		return s.TotalChallengesJoined
	case CriteriaChallengesCompleted:
		return s.TotalChallengesCompleted
	case CriteriaTotalPoints:
		return s.TotalPoints
	case CriteriaCurrentStreak:
		return s.CurrentStreak
	}
	return 0
}

// Catalog is the full badge table. IDs are stable and referenced from
// persisted user records, so entries must never be renamed or removed.
var Catalog = []Badge{
	{ID: "first_challenge", Name: "First Step", Description: "Joined your first challenge", Icon: "🌱", Field: CriteriaChallengesJoined, Threshold: 1},
	{ID: "five_challenges", Name: "Green Enthusiast", Description: "Joined 5 challenges", Icon: "🌿", Field: CriteriaChallengesJoined, Threshold: 5},
	{ID: "ten_challenges", Name: "Eco Warrior", Description: "Joined 10 challenges", Icon: "🌳", Field: CriteriaChallengesJoined, Threshold: 10},
	{ID: "first_completion", Name: "Challenge Champion", Description: "Completed your first challenge", Icon: "🏆", Field: CriteriaChallengesCompleted, Threshold: 1},
	{ID: "five_completions", Name: "Consistent Contributor", Description: "Completed 5 challenges", Icon: "⭐", Field: CriteriaChallengesCompleted, Threshold: 5},
	{ID: "ten_completions", Name: "Environmental Hero", Description: "Completed 10 challenges", Icon: "💚", Field: CriteriaChallengesCompleted, Threshold: 10},
	{ID: "hundred_points", Name: "Point Collector", Description: "Earned 100 points", Icon: "💯", Field: CriteriaTotalPoints, Threshold: 100},
	{ID: "five_hundred_points", Name: "Point Master", Description: "Earned 500 points", Icon: "🎯", Field: CriteriaTotalPoints, Threshold: 500},
	{ID: "thousand_points", Name: "Legendary Eco-Champion", Description: "Earned 1000 points", Icon: "👑", Field: CriteriaTotalPoints, Threshold: 1000},
	{ID: "seven_day_streak", Name: "Week Warrior", Description: "7-day activity streak", Icon: "🔥", Field: CriteriaCurrentStreak, Threshold: 7},
	{ID: "thirty_day_streak", Name: "Month Master", Description: "30-day activity streak", Icon: "🌟", Field: CriteriaCurrentStreak, Threshold: 30},
}

// Evaluate returns every catalog badge whose criteria the stats currently
// satisfy, not just newly earned ones. Callers diff the result against
// badges already held and append only the missing ones.
func Evaluate(s Stats) []Badge {
	var earned []Badge
	for _, b := range Catalog {
		if s.value(b.Field) >= b.Threshold {
			earned = append(earned, b)
		}
	}
	return earned
}
