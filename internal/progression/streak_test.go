package progression

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, 6, d, 15, 30, 0, 0, time.UTC)
}

func TestUpdateStreakFirstActivity(t *testing.T) {
	now := day(1)
	cur, longest, last := UpdateStreak(time.Time{}, now, 0, 0)
	// The zero time is far in the past, so this is a gap reset.
	if cur != 1 || longest != 1 {
		t.Errorf("got (%d, %d), want (1, 1)", cur, longest)
	}
	if !last.Equal(now) {
		t.Errorf("lastActivityDate = %v, want %v", last, now)
	}
}

func TestUpdateStreakSameDay(t *testing.T) {
	morning := time.Date(2026, 6, 3, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 6, 3, 23, 0, 0, 0, time.UTC)

	cur, longest, last := UpdateStreak(morning, evening, 4, 9)
	if cur != 4 || longest != 9 {
		t.Errorf("same-day event changed counters: (%d, %d)", cur, longest)
	}
	if !last.Equal(evening) {
		t.Errorf("lastActivityDate did not advance: %v", last)
	}
}

func TestUpdateStreakConsecutiveDays(t *testing.T) {
	cur, longest := 0, 0
	last := day(1)
	for d := 2; d <= 8; d++ {
		cur, longest, last = UpdateStreak(last, day(d), cur, longest)
	}
	if cur != 7 {
		t.Errorf("currentStreak = %d, want 7", cur)
	}
	if longest != 7 {
		t.Errorf("longestStreak = %d, want 7", longest)
	}
}

func TestUpdateStreakGapResets(t *testing.T) {
	cur, longest, _ := UpdateStreak(day(5), day(9), 6, 6)
	if cur != 1 {
		t.Errorf("currentStreak = %d, want 1 after gap", cur)
	}
	if longest != 6 {
		t.Errorf("longestStreak = %d, want 6 preserved", longest)
	}
}

func TestUpdateStreakGapWithZeroLongest(t *testing.T) {
	_, longest, _ := UpdateStreak(day(1), day(10), 0, 0)
	if longest != 1 {
		t.Errorf("longestStreak = %d, want 1", longest)
	}
}

func TestUpdateStreakBackdated(t *testing.T) {
	earlier := day(3)
	cur, longest, last := UpdateStreak(day(7), earlier, 3, 5)
	if cur != 3 || longest != 5 {
		t.Errorf("backdated event changed counters: (%d, %d)", cur, longest)
	}
	// Last-touched timestamp still follows the event.
	if !last.Equal(earlier) {
		t.Errorf("lastActivityDate = %v, want %v", last, earlier)
	}
}

func TestUpdateStreakCrossesMidnight(t *testing.T) {
	lateNight := time.Date(2026, 6, 3, 23, 59, 0, 0, time.UTC)
	earlyMorning := time.Date(2026, 6, 4, 0, 5, 0, 0, time.UTC)

	cur, _, _ := UpdateStreak(lateNight, earlyMorning, 2, 2)
	if cur != 3 {
		t.Errorf("currentStreak = %d, want 3 across midnight", cur)
	}
}
