package progression

import (
	"testing"
	"time"
)

func badgeIDs(badges []Badge) map[string]bool {
	ids := make(map[string]bool, len(badges))
	for _, b := range badges {
		ids[b.ID] = true
	}
	return ids
}

func TestEvaluateEmptyStats(t *testing.T) {
	if earned := Evaluate(Stats{}); len(earned) != 0 {
		t.Errorf("Evaluate(zero stats) returned %d badges, want 0", len(earned))
	}
}

func TestEvaluateThresholds(t *testing.T) {
	cases := []struct {
		name  string
		stats Stats
		want  []string
	}{
		{
			name:  "first join",
			stats: Stats{TotalChallengesJoined: 1},
			want:  []string{"first_challenge"},
		},
		{
			name:  "below join threshold",
			stats: Stats{TotalChallengesJoined: 4},
			want:  []string{"first_challenge"},
		},
		{
			name:  "five joins",
			stats: Stats{TotalChallengesJoined: 5},
			want:  []string{"first_challenge", "five_challenges"},
		},
		{
			name:  "completions ladder",
			stats: Stats{TotalChallengesCompleted: 10},
			want:  []string{"first_completion", "five_completions", "ten_completions"},
		},
		{
			name:  "exact point thresholds",
			stats: Stats{TotalPoints: 1000},
			want:  []string{"hundred_points", "five_hundred_points", "thousand_points"},
		},
		{
			name:  "just below points",
			stats: Stats{TotalPoints: 99},
			want:  nil,
		},
		{
			name:  "week streak",
			stats: Stats{CurrentStreak: 7},
			want:  []string{"seven_day_streak"},
		},
		{
			name:  "month streak",
			stats: Stats{CurrentStreak: 30},
			want:  []string{"seven_day_streak", "thirty_day_streak"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := badgeIDs(Evaluate(c.stats))
			if len(got) != len(c.want) {
				t.Fatalf("got %d badges %v, want %d", len(got), got, len(c.want))
			}
			for _, id := range c.want {
				if !got[id] {
					t.Errorf("missing badge %q", id)
				}
			}
		})
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	s := Stats{TotalPoints: 600, TotalChallengesJoined: 6, TotalChallengesCompleted: 2, CurrentStreak: 9}
	first := badgeIDs(Evaluate(s))
	second := badgeIDs(Evaluate(s))
	if len(first) != len(second) {
		t.Fatalf("repeated Evaluate disagrees: %v vs %v", first, second)
	}
	for id := range first {
		if !second[id] {
			t.Errorf("badge %q missing on second evaluation", id)
		}
	}
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range Catalog {
		if seen[b.ID] {
			t.Errorf("duplicate badge id %q", b.ID)
		}
		seen[b.ID] = true
	}
}

func TestMergeBadgesPreservesEarnedAt(t *testing.T) {
	then := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	held := []BadgeAward{{BadgeID: "first_challenge", Name: "First Step", EarnedAt: then}}
	eligible := Evaluate(Stats{TotalChallengesJoined: 5})

	merged := mergeBadges(held, eligible, now)
	if len(merged) != 2 {
		t.Fatalf("got %d badges, want 2", len(merged))
	}
	for _, b := range merged {
		switch b.BadgeID {
		case "first_challenge":
			if !b.EarnedAt.Equal(then) {
				t.Errorf("first_challenge earnedAt overwritten: %v", b.EarnedAt)
			}
		case "five_challenges":
			if !b.EarnedAt.Equal(now) {
				t.Errorf("five_challenges earnedAt = %v, want %v", b.EarnedAt, now)
			}
		default:
			t.Errorf("unexpected badge %q", b.BadgeID)
		}
	}

	// The held slice itself must not be touched.
	if len(held) != 1 {
		t.Errorf("input slice mutated, len = %d", len(held))
	}
}

func TestMergeBadgesNeverRemoves(t *testing.T) {
	then := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	held := []BadgeAward{{BadgeID: "seven_day_streak", EarnedAt: then}}

	// Streak has since reset, so the badge is no longer eligible.
	merged := mergeBadges(held, Evaluate(Stats{CurrentStreak: 1}), time.Now())
	if len(merged) != 1 || merged[0].BadgeID != "seven_day_streak" {
		t.Fatalf("held badge dropped: %v", merged)
	}
}
