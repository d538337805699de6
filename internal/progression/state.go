package progression

import "time"

// BadgeAward is a badge as held by a user. EarnedAt is stamped at first
// award and never overwritten; awards are never revoked.
type BadgeAward struct {
	BadgeID     string    `json:"badgeId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earnedAt"`
}

// UserState is the progression-relevant slice of a persisted user record.
// The transition functions below are pure: they return a new value and leave
// the input untouched, so the persistence layer can apply the counter deltas
// as atomic increments and the derived fields as plain column writes.
type UserState struct {
	TotalPoints              int          `json:"totalPoints"`
	TotalChallengesJoined    int          `json:"totalChallengesJoined"`
	TotalChallengesCompleted int          `json:"totalChallengesCompleted"`
	CurrentStreak            int          `json:"currentStreak"`
	LongestStreak            int          `json:"longestStreak"`
	LastActivityDate         time.Time    `json:"lastActivityDate"`
	Rank                     string       `json:"rank"`
	Badges                   []BadgeAward `json:"badges"`
}

func (s UserState) stats() Stats {
	return Stats{
		TotalPoints:              s.TotalPoints,
		TotalChallengesJoined:    s.TotalChallengesJoined,
		TotalChallengesCompleted: s.TotalChallengesCompleted,
		CurrentStreak:            s.CurrentStreak,
	}
}

// OnChallengeJoined rolls a join event into the user state: the joined
// counter goes up and badges are re-evaluated. Points, rank and streak are
// not touched; joining is not a qualifying activity event.
func OnChallengeJoined(s UserState, now time.Time) UserState {
	s.TotalChallengesJoined++
	s.Badges = mergeBadges(s.Badges, Evaluate(s.stats()), now)
	return s
}

// OnChallengeCompleted rolls a completion event into the user state, in
// order: points, completed counter, streak, rank, badges.
func OnChallengeCompleted(s UserState, pointsEarned int, now time.Time) UserState {
	s.TotalPoints += pointsEarned
	s.TotalChallengesCompleted++
	s.CurrentStreak, s.LongestStreak, s.LastActivityDate =
		UpdateStreak(s.LastActivityDate, now, s.CurrentStreak, s.LongestStreak)
	s.Rank = CalculateRank(s.TotalPoints)
	s.Badges = mergeBadges(s.Badges, Evaluate(s.stats()), now)
	return s
}

// mergeBadges appends newly eligible badges to the held set, stamping
// earnedAt with now. Badges already held keep their original earnedAt, and
// nothing is ever removed. The held slice is copied, never mutated.
func mergeBadges(held []BadgeAward, eligible []Badge, now time.Time) []BadgeAward {
	out := make([]BadgeAward, len(held))
	copy(out, held)
	for _, b := range eligible {
		if hasBadge(out, b.ID) {
			continue
		}
		out = append(out, BadgeAward{
			BadgeID:     b.ID,
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
			EarnedAt:    now,
		})
	}
	return out
}

func hasBadge(held []BadgeAward, id string) bool {
	for _, b := range held {
		if b.BadgeID == id {
			return true
		}
	}
	return false
}
