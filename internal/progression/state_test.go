package progression

import (
	"testing"
	"time"
)

func TestOnChallengeJoined(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	s := UserState{TotalPoints: 40, Rank: RankBeginner}

	got := OnChallengeJoined(s, now)

	if got.TotalChallengesJoined != 1 {
		t.Errorf("TotalChallengesJoined = %d, want 1", got.TotalChallengesJoined)
	}
	if got.TotalPoints != 40 || got.Rank != RankBeginner {
		t.Errorf("join touched points or rank: %+v", got)
	}
	if got.CurrentStreak != 0 {
		t.Errorf("join touched streak: %d", got.CurrentStreak)
	}
	if len(got.Badges) != 1 || got.Badges[0].BadgeID != "first_challenge" {
		t.Errorf("Badges = %v, want [first_challenge]", got.Badges)
	}

	// Input state is untouched.
	if s.TotalChallengesJoined != 0 || len(s.Badges) != 0 {
		t.Errorf("input state mutated: %+v", s)
	}
}

func TestOnChallengeCompleted(t *testing.T) {
	now := time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)
	s := UserState{
		TotalPoints:              40,
		TotalChallengesJoined:    1,
		CurrentStreak:            1,
		LongestStreak:            1,
		LastActivityDate:         time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		Rank:                     RankBeginner,
		Badges:                   []BadgeAward{{BadgeID: "first_challenge", EarnedAt: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)}},
	}

	got := OnChallengeCompleted(s, 60, now)

	if got.TotalPoints != 100 {
		t.Errorf("TotalPoints = %d, want 100", got.TotalPoints)
	}
	if got.TotalChallengesCompleted != 1 {
		t.Errorf("TotalChallengesCompleted = %d, want 1", got.TotalChallengesCompleted)
	}
	if got.CurrentStreak != 2 || got.LongestStreak != 2 {
		t.Errorf("streak = (%d, %d), want (2, 2)", got.CurrentStreak, got.LongestStreak)
	}
	if got.Rank != RankIntermediate {
		t.Errorf("Rank = %q, want Intermediate", got.Rank)
	}

	want := map[string]bool{"first_challenge": true, "first_completion": true, "hundred_points": true}
	if len(got.Badges) != len(want) {
		t.Fatalf("Badges = %v, want %v", got.Badges, want)
	}
	for _, b := range got.Badges {
		if !want[b.BadgeID] {
			t.Errorf("unexpected badge %q", b.BadgeID)
		}
	}
}

func TestOnChallengeCompletedBadgeSeesNewCounters(t *testing.T) {
	// Badges are evaluated after points and the completed counter are rolled
	// in, so a completion that crosses a threshold earns the badge in the
	// same transition.
	now := time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)
	s := UserState{TotalPoints: 90, LastActivityDate: now}

	got := OnChallengeCompleted(s, 10, now)

	found := false
	for _, b := range got.Badges {
		if b.BadgeID == "hundred_points" {
			found = true
		}
	}
	if !found {
		t.Errorf("hundred_points not awarded at exactly 100 points: %v", got.Badges)
	}
}

func TestOnChallengeCompletedZeroPoints(t *testing.T) {
	now := time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)
	s := UserState{LastActivityDate: now.Add(-24 * time.Hour), CurrentStreak: 1, LongestStreak: 3}

	got := OnChallengeCompleted(s, 0, now)

	if got.TotalPoints != 0 {
		t.Errorf("TotalPoints = %d, want 0", got.TotalPoints)
	}
	if got.TotalChallengesCompleted != 1 {
		t.Errorf("TotalChallengesCompleted = %d, want 1", got.TotalChallengesCompleted)
	}
	if got.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", got.CurrentStreak)
	}
	if got.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", got.LongestStreak)
	}
}
