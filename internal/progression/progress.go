package progression

import (
	"fmt"
	"math"
	"time"

	"ecoTrackAPI/internal/apperrors"
	"ecoTrackAPI/internal/membership"
)

// Percentage derives the completion percentage from the entry log: the share
// of entries marked completed, rounded half-to-even. No entries means 0.
func Percentage(entries []membership.ProgressEntry) int {
	if len(entries) == 0 {
		return 0
	}
	completed := 0
	for _, e := range entries {
		if e.DayStatus == membership.DayCompleted {
			completed++
		}
	}
	return int(math.RoundToEven(100 * float64(completed) / float64(len(entries))))
}

// RecordProgress appends one daily entry to the membership and recomputes its
// derived state. Entries are append-only: resubmitting an identical entry
// appends a duplicate and double-counts it, so callers needing exactly-once
// semantics must dedupe upstream.
//
// Reaching 100% transitions the membership to completed, stamps
// completedDate and fixes pointsEarned. Rolling the completion into the
// owning user's counters is the caller's job (see OnChallengeCompleted).
func RecordProgress(m *membership.Membership, entry membership.ProgressEntry, now time.Time) error {
	if m.Status.Terminal() {
		return fmt.Errorf("membership %s is %s: %w", m.ID, m.Status, apperrors.ErrConflict)
	}
	if !entry.DayStatus.Valid() {
		return fmt.Errorf("invalid day status %q: %w", entry.DayStatus, apperrors.ErrValidation)
	}

	m.ProgressEntries = append(m.ProgressEntries, entry)
	m.TotalUpdates = len(m.ProgressEntries)
	m.ProgressPercentage = Percentage(m.ProgressEntries)

	if m.ProgressPercentage >= 100 {
		m.Status = membership.StatusCompleted
		completed := now
		m.CompletedDate = &completed
		m.PointsEarned = AwardPoints(m.ChallengePoints, m.ChallengeDurationDays)
	} else if m.ProgressPercentage > 0 {
		m.Status = membership.StatusActive
	}

	m.DaysActive = int(now.Sub(m.StartDate).Hours() / 24)
	m.LastUpdated = now
	return nil
}
