package progression

// AwardPoints returns the point value a membership earns when it completes.
// A challenge carrying an explicit non-negative point value wins; otherwise
// the award is derived from duration: ceil(durationDays/5) * 10.
//
// The result is fixed into the membership's pointsEarned at completion and
// never recomputed, even if the challenge definition changes later.
func AwardPoints(points *int, durationDays int) int {
	if points != nil && *points >= 0 {
		return *points
	}
	if durationDays <= 0 {
		return 0
	}
	return (durationDays + 4) / 5 * 10
}
