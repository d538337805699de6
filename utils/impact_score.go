package utils

import "math"

// CalculateImpactScore is a display-only composite for leaderboard rows:
// streak counts quadratically, points and badges linearly.
func CalculateImpactScore(totalPoints, currentStreak, badgeCount int) float64 {
	streakScore := math.Pow(float64(currentStreak), 2) * 0.3
	pointsScore := float64(totalPoints) * 0.5
	badgeScore := float64(badgeCount) * 5.0

	return streakScore + pointsScore + badgeScore
}
