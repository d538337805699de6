package progression

import (
	"errors"
	"testing"
	"time"

	"ecoTrackAPI/internal/apperrors"
	"ecoTrackAPI/internal/membership"
)

func entries(statuses ...membership.DayStatus) []membership.ProgressEntry {
	out := make([]membership.ProgressEntry, len(statuses))
	for i, s := range statuses {
		out[i] = membership.ProgressEntry{DayStatus: s}
	}
	return out
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		name    string
		entries []membership.ProgressEntry
		want    int
	}{
		{"no entries", nil, 0},
		{"all completed", entries(membership.DayCompleted, membership.DayCompleted), 100},
		{"half", entries(membership.DayCompleted, membership.DayCompleted, membership.DayMissed, membership.DayInProgress), 50},
		{"one third rounds down", entries(membership.DayCompleted, membership.DayMissed, membership.DayMissed), 33},
		{"two thirds rounds up", entries(membership.DayCompleted, membership.DayCompleted, membership.DayMissed), 67},
		{"none completed", entries(membership.DayMissed, membership.DayInProgress), 0},
		// 1/8 = 12.5, banker's rounding lands on the even neighbor.
		{"half-even down", entries(membership.DayCompleted, membership.DayMissed, membership.DayMissed, membership.DayMissed, membership.DayMissed, membership.DayMissed, membership.DayMissed, membership.DayMissed), 12},
		// 3/8 = 37.5 rounds to 38.
		{"half-even up", entries(membership.DayCompleted, membership.DayCompleted, membership.DayCompleted, membership.DayMissed, membership.DayMissed, membership.DayMissed, membership.DayMissed, membership.DayMissed), 38},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Percentage(c.entries); got != c.want {
				t.Errorf("Percentage = %d, want %d", got, c.want)
			}
		})
	}
}

func newTestMembership() *membership.Membership {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return &membership.Membership{
		Status:                membership.StatusActive,
		ChallengeDurationDays: 2,
		StartDate:             start,
		JoinedDate:            start,
		LastUpdated:           start,
	}
}

func TestRecordProgressAppends(t *testing.T) {
	m := newTestMembership()
	now := time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC)

	err := RecordProgress(m, membership.ProgressEntry{DayStatus: membership.DayMissed}, now)
	if err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}
	if m.TotalUpdates != 1 {
		t.Errorf("TotalUpdates = %d, want 1", m.TotalUpdates)
	}
	if m.ProgressPercentage != 0 {
		t.Errorf("ProgressPercentage = %d, want 0", m.ProgressPercentage)
	}
	if m.Status != membership.StatusActive {
		t.Errorf("Status = %q, want active", m.Status)
	}
	if m.DaysActive != 2 {
		t.Errorf("DaysActive = %d, want 2", m.DaysActive)
	}
	if !m.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v, want %v", m.LastUpdated, now)
	}
}

func TestRecordProgressCompletes(t *testing.T) {
	m := newTestMembership()
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	if err := RecordProgress(m, membership.ProgressEntry{DayStatus: membership.DayCompleted}, now); err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}

	if m.Status != membership.StatusCompleted {
		t.Fatalf("Status = %q, want completed", m.Status)
	}
	if m.CompletedDate == nil || !m.CompletedDate.Equal(now) {
		t.Errorf("CompletedDate = %v, want %v", m.CompletedDate, now)
	}
	// Duration of 2 days awards ceil(2/5)*10 = 10 points.
	if m.PointsEarned != 10 {
		t.Errorf("PointsEarned = %d, want 10", m.PointsEarned)
	}
}

func TestRecordProgressExplicitPointsSnapshot(t *testing.T) {
	m := newTestMembership()
	m.ChallengePoints = intPtr(120)

	if err := RecordProgress(m, membership.ProgressEntry{DayStatus: membership.DayCompleted}, time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}
	if m.PointsEarned != 120 {
		t.Errorf("PointsEarned = %d, want 120", m.PointsEarned)
	}
}

func TestRecordProgressTerminalRejected(t *testing.T) {
	for _, status := range []membership.Status{membership.StatusCompleted, membership.StatusAbandoned} {
		m := newTestMembership()
		m.Status = status

		err := RecordProgress(m, membership.ProgressEntry{DayStatus: membership.DayCompleted}, time.Now())
		if !errors.Is(err, apperrors.ErrConflict) {
			t.Errorf("status %q: err = %v, want ErrConflict", status, err)
		}
		if m.TotalUpdates != 0 {
			t.Errorf("status %q: entry appended to terminal membership", status)
		}
	}
}

func TestRecordProgressInvalidDayStatus(t *testing.T) {
	m := newTestMembership()

	err := RecordProgress(m, membership.ProgressEntry{DayStatus: "done"}, time.Now())
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	if m.TotalUpdates != 0 {
		t.Errorf("invalid entry was appended")
	}
}

func TestRecordProgressDuplicatesDoubleCount(t *testing.T) {
	m := newTestMembership()
	m.ChallengeDurationDays = 30
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	e := membership.ProgressEntry{Date: now, DayStatus: membership.DayCompleted}

	if err := RecordProgress(m, e, now); err != nil {
		t.Fatalf("first RecordProgress: %v", err)
	}
	// 100% after one completed entry transitions to completed, so use a
	// mixed log to keep the membership open for the duplicate.
	m2 := newTestMembership()
	m2.ChallengeDurationDays = 30
	if err := RecordProgress(m2, membership.ProgressEntry{DayStatus: membership.DayMissed}, now); err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}
	if err := RecordProgress(m2, e, now); err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}
	if err := RecordProgress(m2, e, now); err != nil {
		t.Fatalf("duplicate RecordProgress: %v", err)
	}
	if m2.TotalUpdates != 3 {
		t.Errorf("TotalUpdates = %d, want 3", m2.TotalUpdates)
	}
	if m2.ProgressPercentage != 67 {
		t.Errorf("ProgressPercentage = %d, want 67", m2.ProgressPercentage)
	}
}
