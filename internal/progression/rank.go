package progression

const (
	RankBeginner     = "Beginner"
	RankIntermediate = "Intermediate"
	RankAdvanced     = "Advanced"
	RankExpert       = "Expert"
	RankMaster       = "Master"
)

// rankLadder is ordered from highest threshold down; CalculateRank takes the
// first tier whose minimum the points reach.
var rankLadder = []struct {
	min   int
	label string
}{
	{1000, RankMaster},
	{500, RankExpert},
	{200, RankAdvanced},
	{50, RankIntermediate},
	{0, RankBeginner},
}

// CalculateRank maps cumulative points to a tier label. Pure step function,
// monotonic non-decreasing in totalPoints.
func CalculateRank(totalPoints int) string {
	for _, tier := range rankLadder {
		if totalPoints >= tier.min {
			return tier.label
		}
	}
	return RankBeginner
}

// RankOrder returns the tier position of a label, lowest first. Unknown
// labels sort below Beginner.
func RankOrder(label string) int {
	for i, tier := range rankLadder {
		if tier.label == label {
			return len(rankLadder) - 1 - i
		}
	}
	return -1
}
